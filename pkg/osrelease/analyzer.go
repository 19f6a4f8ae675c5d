package osrelease

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Reference https://manpages.ubuntu.com/manpages/bionic/man5/os-release.5.html
var paths = []string{"etc/os-release", "usr/lib/os-release", "etc/centos-release"}

var versionRegex = regexp.MustCompile(`(\d+\.)?(\d+\.)?(\*|\d+)`)

// DetectOs reads the distribution of the filesystem mounted at root.
func DetectOs(root string) *OsVersion {
	for _, n := range paths {
		data, err := os.ReadFile(filepath.Join(root, n))
		if err != nil {
			log.Debugf("detect os error: %v", err)
			continue
		}

		if content := string(data); strings.TrimSpace(content) != "" {
			return getOs(content, n)
		}
	}

	return &OsVersion{
		NAME: "Linux",
		OID:  "linux",
	}
}

func parse(content, path string) map[string]string {
	m := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		switch path {
		case "etc/os-release", "usr/lib/os-release":
			k, v, ok := strings.Cut(line, "=")
			if ok {
				m[k] = strings.Trim(v, `"'`)
			}
		case "etc/centos-release":
			m["NAME"] = "CentOS Linux"
			m["ID"] = "centos"
			m["VERSION_ID"] = versionRegex.FindString(line)
		default:
			// ignore
		}
	}
	return m
}

func getOs(content, path string) *OsVersion {
	osv := &OsVersion{
		NAME: "Linux",
		OID:  "linux",
	}

	for k, v := range parse(content, path) {
		switch k {
		case "NAME":
			osv.NAME = v
		case "ID":
			osv.OID = v
		case "VERSION":
			osv.VERSION = v
		case "VERSION_ID":
			osv.VERSION_ID = v
		}
	}

	return osv
}
