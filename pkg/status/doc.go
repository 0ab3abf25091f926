/*
Package status reads the actual state of releases from the helm binary.

A Query lists every release the tool knows about, scans linearly for a
target name, and, only when that release exists, runs a second command
to fetch its currently-applied values. The two-step design
mirrors the tool itself: listings are cheap and global, values are
per-release and only meaningful for deployed releases.

# Absence vs Failure

Observe distinguishes three terminal states:

  - Release found: returns a fully-populated ObservedRelease, values
    included.
  - Release absent: returns (nil, nil). Absence is an ordinary answer,
    not an error; the reconciler treats it as "first install" or
    "already deleted" depending on desired state.
  - Tool or parse failure: returns an error. A nonzero exit from list
    or get-values, or unparseable YAML from either, aborts the
    observation; a partially-populated release is never returned
    because it would corrupt the decision that follows.

# Listing Shapes

The two dialects print different YAML. The legacy client wraps its
records in a mapping with capitalized keys:

	Releases:
	- Name: myapp
	  Namespace: default
	  Chart: mychart-1.2.3

The modern client prints a bare sequence with lowercase keys and a
string revision. parseListing selects the wire shape from the session
dialect and maps both into the same ObservedRelease.
*/
package status
