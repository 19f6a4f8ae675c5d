//go:build windows

package packages

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"
)

type uninstallKey struct {
	root registry.Key
	path string
}

var uninstallKeys = []uninstallKey{
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
}

// Collect lists installed programs from the Uninstall registry keys.
func Collect(ctx context.Context) ([]Package, error) {
	packs := []Package{}

	for _, u := range uninstallKeys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := readUninstall(u)
		if err != nil {
			log.Debugf("failed to read %s, error: %v", u.path, err)
			continue
		}
		packs = append(packs, found...)
	}

	return Dedupe(packs), nil
}

func readUninstall(u uninstallKey) ([]Package, error) {
	k, err := registry.OpenKey(u.root, u.path, registry.ENUMERATE_SUB_KEYS|registry.READ)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}

	packs := []Package{}
	for _, name := range names {
		sub, err := registry.OpenKey(k, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		display, _, err := sub.GetStringValue("DisplayName")
		if err != nil || display == "" {
			sub.Close()
			continue
		}

		version, _, _ := sub.GetStringValue("DisplayVersion")
		publisher, _, _ := sub.GetStringValue("Publisher")
		sub.Close()

		packs = append(packs, Package{
			Name:      display,
			Version:   version,
			Publisher: publisher,
		})
	}

	return packs, nil
}
