/*
Package helmcmd assembles helm argument vectors for chartsync.

Every interaction chartsync has with the helm binary starts here: the
version probe, the release listing, the values fetch, the
install-or-upgrade, and the delete. The package is purely functional:
it performs no I/O, spawns no processes, and never fails. Arguments are
modeled as ordered token vectors from the start, never as strings under
incremental concatenation.

# Session Model

A Builder wraps the resolved binary path. After the version probe
classifies the client dialect (see the dialect package), a legacy (v2)
session derives a second builder via WithConnectionFlags, which plants
the tiller connection flag in the base vector so that every subsequent
subcommand in the session carries it:

	b := helmcmd.NewBuilder("/usr/local/bin/helm")
	argv := b.Version()
	// probe, classify...
	if d == dialect.Legacy {
		b = b.WithConnectionFlags(spec.Tiller)
	}
	argv = b.List() // ["/usr/local/bin/helm", "--host=default", "list", "--output=yaml"]

Builders are immutable: deriving a connection-flagged builder never
mutates the original, so a probe builder can be kept alongside its
session builder safely.

# Command Shapes

	Version()                -> version --client --template '{{ .Client.SemVer }}'
	List()                   -> list --output=yaml
	GetValues(name)          -> get values --output=yaml <name>
	Deploy(spec, valuesFile) -> upgrade -i [--version=] [--repo= [--username= --password=]]
	                            [-f=<valuesFile>] --namespace=<ns> <name> <chart>
	Delete(name, purge)      -> delete [--purge] <name>

Repository credentials are only added when both username and password
are present. The values file flag is only added when a path was
materialized by the caller.
*/
package helmcmd
