package packages

import (
	"strings"
)

// parseStatus reads a dpkg status or apk installed database. Both are
// blank-line separated stanzas of "Key: value" (dpkg) or "K:value" (apk) lines.
func parseStatus(db string) []Package {
	packs := []Package{}

	for _, pe := range strings.Split(db, "\n\n") {
		if len(strings.TrimSpace(pe)) < 1 {
			continue
		}

		p := Package{}
		installed := true
		for _, l := range strings.Split(pe, "\n") {
			k, v, ok := strings.Cut(l, ":")
			if !ok || strings.HasPrefix(l, " ") {
				// continuation lines of a multi-line field
				continue
			}
			v = strings.TrimSpace(v)

			switch k {
			// For ubuntu/debian
			case "Package":
				p.Name = v
			case "Version":
				p.Version = v
			case "Maintainer":
				p.Publisher = v
			case "Status":
				installed = strings.HasSuffix(v, " installed")

			// For alpine linux
			case "P":
				p.Name = v
			case "V":
				p.Version = v
			case "m":
				p.Publisher = v

			default:
				// ignore
			}
		}

		if p.Name == "" || !installed {
			continue
		}
		packs = append(packs, p)
	}

	return packs
}
