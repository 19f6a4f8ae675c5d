package packages

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	rpmdb "github.com/knqyf263/go-rpmdb/pkg"
)

const dpkgStatus = `Package: openssl
Status: install ok installed
Priority: optional
Maintainer: Ubuntu Developers <ubuntu-devel-discuss@lists.ubuntu.com>
Architecture: amd64
Version: 3.0.2-0ubuntu1.10
Description: Secure Sockets Layer toolkit
 This package contains the openssl binary.
 .
 Version: not a field

Package: nginx
Status: deinstall ok config-files
Maintainer: Debian Nginx Maintainers
Version: 1.18.0-6ubuntu14

Package: libc6
Status: install ok installed
Version: 2:2.35-0ubuntu3.4
`

const apkInstalled = `C:Q1abc=
P:musl
V:1.2.4-r2
m:Timo Teräs <timo.teras@iki.fi>

C:Q1def=
P:nginx
V:1.24.0-r7
`

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		db   string
		want []Package
	}{
		{
			name: "dpkg",
			db:   dpkgStatus,
			want: []Package{
				{Name: "openssl", Version: "3.0.2-0ubuntu1.10", Publisher: "Ubuntu Developers <ubuntu-devel-discuss@lists.ubuntu.com>"},
				{Name: "libc6", Version: "2:2.35-0ubuntu3.4"},
			},
		},
		{
			name: "apk",
			db:   apkInstalled,
			want: []Package{
				{Name: "musl", Version: "1.2.4-r2", Publisher: "Timo Teräs <timo.teras@iki.fi>"},
				{Name: "nginx", Version: "1.24.0-r7"},
			},
		},
		{
			name: "empty",
			db:   "\n\n",
			want: []Package{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseStatus(tt.db)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseStatus() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []Package{
		{Name: "7-Zip", Version: "23.01", Publisher: "Igor Pavlov"},
		{Name: "Mozilla Firefox", Version: "118.0.1"},
		{Name: "7-Zip", Version: "23.01", Publisher: "someone else"},
		{Name: "7-Zip", Version: "22.00"},
		{Name: "", Version: "1.0"},
	}

	want := []Package{
		{Name: "7-Zip", Version: "23.01", Publisher: "Igor Pavlov"},
		{Name: "Mozilla Firefox", Version: "118.0.1"},
		{Name: "7-Zip", Version: "22.00"},
	}

	if got := Dedupe(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe() got = %v, want %v", got, want)
	}
}

func TestParseInventory(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []Package
		wantErr bool
	}{
		{
			name: "yamlList",
			data: `
- name: Mozilla Firefox
  version: 118.0.1
  publisher: Mozilla
- name: 7-Zip
  version: ""
`,
			want: []Package{
				{Name: "Mozilla Firefox", Version: "118.0.1", Publisher: "Mozilla"},
				{Name: "7-Zip"},
			},
		},
		{
			name: "yamlMapping",
			data: `
packages:
  - name: Google Chrome
    version: "120.0.6099.130"
  - name: Google Chrome
    version: "120.0.6099.130"
`,
			want: []Package{
				{Name: "Google Chrome", Version: "120.0.6099.130"},
			},
		},
		{
			name: "json",
			data: `[{"name": "VLC media player", "version": "3.0.20", "publisher": "VideoLAN"}]`,
			want: []Package{
				{Name: "VLC media player", Version: "3.0.20", Publisher: "VideoLAN"},
			},
		},
		{
			name: "empty",
			data: "",
			want: []Package{},
		},
		{
			name:    "scalar",
			data:    "just a string",
			wantErr: true,
		},
		{
			name:    "broken",
			data:    "- name: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInventory([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseInventory() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseInventory() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	if err := os.WriteFile(path, []byte("- name: OpenSSL\n  version: 3.1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := []Package{{Name: "OpenSSL", Version: "3.1.4"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadFile() got = %v, want %v", got, want)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadFile() expected an error for a missing file")
	}
}

const pacmanDesc = `%NAME%
openssl

%VERSION%
3.1.4-1

%BASE%
openssl

%DESC%
The Open Source toolkit for Secure Sockets Layer and Transport Layer Security

%PACKAGER%
Pierre Schmitz <pierre@archlinux.de>

%DEPENDS%
glibc
`

func TestParseDesc(t *testing.T) {
	tests := []struct {
		name   string
		desc   string
		want   Package
		wantOk bool
	}{
		{
			name:   "full",
			desc:   pacmanDesc,
			want:   Package{Name: "openssl", Version: "3.1.4-1", Publisher: "Pierre Schmitz <pierre@archlinux.de>"},
			wantOk: true,
		},
		{
			name:   "crlf",
			desc:   "%NAME%\r\nnginx\r\n\r\n%VERSION%\r\n1.24.0-1\r\n",
			want:   Package{Name: "nginx", Version: "1.24.0-1"},
			wantOk: true,
		},
		{
			name: "noName",
			desc: "%VERSION%\n1.0-1\n",
			want: Package{Version: "1.0-1"},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDesc(tt.desc)
			if ok != tt.wantOk {
				t.Errorf("parseDesc() ok = %v, want %v", ok, tt.wantOk)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseDesc() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromRpm(t *testing.T) {
	got := fromRpm([]*rpmdb.PackageInfo{
		{Name: "openssl-libs", Version: "3.0.7", Release: "24.el9", Arch: "x86_64", Vendor: "Red Hat, Inc."},
		nil,
		{Name: "", Version: "1.0"},
		{Name: "firefox", Version: "115.6.0", Release: "1.el9_3"},
	})

	want := []Package{
		{Name: "openssl-libs", Version: "3.0.7", Publisher: "Red Hat, Inc."},
		{Name: "firefox", Version: "115.6.0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fromRpm() got = %v, want %v", got, want)
	}
}
