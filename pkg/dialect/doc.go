/*
Package dialect probes the helm client version and selects the command
dialect for a reconciliation session.

Helm's two surviving command-line generations differ in how commands
connect to the cluster: the legacy v2 client routes everything through
an in-cluster tiller and needs a connection flag on every invocation,
while v3 and later talk to the API server directly. chartsync models
this as a two-variant enum derived exactly once per session:

	d, version, err := dialect.Probe(ctx, executor, builder)

Probe runs the client-side version command (no cluster access needed)
and feeds the reported semantic version to FromVersion, which maps
major version 2 to Legacy and everything else to Modern. FromVersion is
total: a version string that does not parse is classified as Modern
rather than failing, on the grounds that every unparseable client
observed in the wild has been a post-v2 build. The classification is
then consulted in exactly one place, deriving the session's command
builder, instead of being re-checked at call sites.
*/
package dialect
