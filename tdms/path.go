package tdms

import (
	"strings"
)

// ParsePath splits an object path into its unquoted components.
//
// Examples:
//   - "/" -> []string{}
//   - "/'Group'" -> []string{"Group"}
//   - "/'Group'/'Channel'" -> []string{"Group", "Channel"}
//   - "/'it''s'" -> []string{"it's"}
//
// Names may contain '/' and any other character; a single quote inside a
// name is written twice.
func ParsePath(path string) ([]string, error) {
	if path == "/" {
		return []string{}, nil
	}
	if path == "" {
		return nil, pathError(path, "empty path")
	}

	var names []string
	i := 0
	for i < len(path) {
		if path[i] != '/' {
			return nil, pathError(path, "expected '/'")
		}
		i++
		if i >= len(path) || path[i] != '\'' {
			return nil, pathError(path, "expected opening quote")
		}
		i++

		var sb strings.Builder
		closed := false
		for i < len(path) {
			c := path[i]
			if c != '\'' {
				sb.WriteByte(c)
				i++
				continue
			}
			if i+1 < len(path) && path[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			i++
			closed = true
			break
		}
		if !closed {
			return nil, pathError(path, "unterminated name")
		}
		names = append(names, sb.String())
	}
	return names, nil
}

// BuildPath quotes names into an object path. No names gives the root "/".
func BuildPath(names ...string) string {
	if len(names) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString("/'")
		sb.WriteString(strings.ReplaceAll(n, "'", "''"))
		sb.WriteByte('\'')
	}
	return sb.String()
}

// GroupPath returns the object path of a group.
func GroupPath(group string) string {
	return BuildPath(group)
}

// ChannelPath returns the object path of a channel.
func ChannelPath(group, channel string) string {
	return BuildPath(group, channel)
}

func pathError(path, reason string) error {
	return &InvalidPathError{Path: path, Offset: -1, Reason: reason}
}
