/*
Package config loads placeholder values from a values file.

	            +-------------+
	            |   Config    |
	            |  (Values)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Lets a template ship its values next to the repository instead of on the
  command line
- Keeps values keyed by placeholder config key (project_name, owner, ...)
- Carries exclude patterns for target files that must stay untouched

⚡ Key Responsibilities:
- Format selection by file extension (.yaml, .yml, .json, .jsonc, .hcl)
- Accepting comments and trailing commas in JSON files
- Rejecting unknown fields and unknown placeholder keys
- Exposing current_year and env to HCL expressions

🔍 Example:

	# instantiate.yaml
	values:
	  project_name: My Project
	  owner: my-org
	exclude:
	  - .github/ISSUE_TEMPLATE/*.yml

	# instantiate.hcl
	values = {
	  project_name = "My Project"
	  owner        = env.GITHUB_REPOSITORY_OWNER
	  year         = current_year
	}
*/
package config
