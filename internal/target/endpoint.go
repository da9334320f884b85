package target

import (
	"regexp"
	"strconv"
)

// endpointPattern follows WP-CLI's --ssh syntax:
//
//	[<scheme>:][<user>@]<host|container>[:<port>][<path>]
//
// The path keeps its leading / or ~ so it can be appended to user@host:port
// as-is.
var endpointPattern = regexp.MustCompile(`^((docker|docker-compose|docker-compose-run|ssh|vagrant):)?(([^@:]+)@)?([^:/~]+)(:(\d*))?((/|~)(.+))?$`)

// Endpoint is the parsed form of an --ssh style string.
type Endpoint struct {
	Scheme string
	User   string
	Host   string
	Port   int
	Path   string
}

// ParseSSH splits an endpoint string into its parts. Strings that do not
// match the syntax yield a zero Endpoint.
func ParseSSH(s string) Endpoint {
	m := endpointPattern.FindStringSubmatch(s)
	if m == nil {
		return Endpoint{}
	}

	ep := Endpoint{
		Scheme: m[2],
		User:   m[4],
		Host:   m[5],
		Path:   m[8],
	}
	if m[7] != "" {
		if port, err := strconv.Atoi(m[7]); err == nil {
			ep.Port = port
		}
	}
	return ep
}
