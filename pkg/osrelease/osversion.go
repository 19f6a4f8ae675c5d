package osrelease

type OsVersion struct {
	NAME       string `json:"name"`
	OID        string `json:"oid"`
	VERSION    string `json:"version"`
	VERSION_ID string `json:"version_id"`
}

// rpmIDs are distributions whose package database is rpm.
var rpmIDs = []string{"centos", "rhel", "ol", "fedora", "rocky", "almalinux", "amzn"}

// RPMBased reports whether the distribution keeps an rpm database.
func (o *OsVersion) RPMBased() bool {
	for _, id := range rpmIDs {
		if o.OID == id {
			return true
		}
	}
	return false
}
