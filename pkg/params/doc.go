// Package params turns operator-written release configuration into
// validated specs.
//
// # Parameter Surface
//
// A release accepts these keys, several with a short alias:
//
//	binary_path                     override the helm executable
//	chart_name                      required
//	chart_version                   optional, latest when omitted
//	release_name / name             required
//	release_namespace / namespace   default "default"
//	release_state / state           "present" or "absent", default "present"
//	release_values / values         default empty mapping
//	repo_url                        required
//	repo_username / repo_password   both needed for authenticated repos
//	tiller_host                     legacy dialect only
//	tiller_namespace                legacy dialect only, default "default"
//
// When a key and its alias are both set, the long form wins.
// Validation and defaulting happen in Resolve, never during parsing,
// so a manifest can be loaded and inspected before it is accepted.
//
// # Manifest Layouts
//
// A manifest file holds either a sequence of releases:
//
//	binary_path: /usr/local/bin/helm
//	releases:
//	  - release_name: frontend
//	    chart_name: web
//	    chart_version: "2.1.0"
//	    repo_url: https://charts.example.com
//	  - release_name: backend
//	    chart_name: api
//	    repo_url: https://charts.example.com
//
// or a single flat release, which is convenient for one-off applies:
//
//	release_name: myapp
//	chart_name: mychart
//	repo_url: https://charts.example.com
//
// File.Resolve validates all releases and rejects the whole manifest
// on the first invalid one.
package params
