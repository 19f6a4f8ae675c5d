package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kvesta/hostvuln/config"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultOutput selects a dated file inside ./output.
const DefaultOutput = "output"

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func getOutputFile(outfile, ext string, now time.Time) (string, error) {
	if outfile == "" || outfile == DefaultOutput {
		pwd, _ := os.Getwd()
		folder := filepath.Join(pwd, DefaultOutput)
		if !exists(folder) {
			err := os.MkdirAll(folder, os.FileMode(0755))
			if err != nil {
				return "", err
			}
		}
		nowStamp := now.Format("2006-01-02-150405")
		file := filepath.Join(folder, fmt.Sprintf("%s.%s", nowStamp, ext))

		return file, nil
	}

	if filepath.Ext(outfile) != "."+ext {
		outfile = strings.TrimSuffix(outfile, filepath.Ext(outfile)) + "." + ext
	}

	folder := filepath.Dir(outfile)
	if !exists(folder) {
		err := os.MkdirAll(folder, os.FileMode(0755))
		if err != nil {
			return "", err
		}
	}

	return outfile, nil
}

// ToJSON writes r as indented JSON and returns the file name.
func ToJSON(r *Report, outfile string) (string, error) {
	filename, err := getOutputFile(outfile, "json", time.Now())
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	if err = os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}

	return filename, nil
}

// ToHTML renders r into a standalone HTML page and returns the file name.
func ToHTML(r *Report, outfile string) (string, error) {
	filename, err := getOutputFile(outfile, "html", time.Now())
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err = htmlTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}

	if err = os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	return filename, nil
}

// Save writes r in the configured formats. A failed HTML rendering falls
// back to JSON. The HTML file, when written, comes last in the result.
func Save(r *Report, out config.OutputConfig) ([]string, error) {
	files := []string{}

	switch out.Format {
	case "none":
		return files, nil

	case "json":
		name, err := ToJSON(r, out.Path)
		if err != nil {
			return files, err
		}
		files = append(files, name)

	case "both":
		name, err := ToJSON(r, out.Path)
		if err != nil {
			return files, err
		}
		files = append(files, name)

		name, err = ToHTML(r, out.Path)
		if err != nil {
			log.Warnf("failed to write html report, error: %v", err)
			break
		}
		files = append(files, name)

	default:
		name, err := ToHTML(r, out.Path)
		if err == nil {
			files = append(files, name)
			break
		}

		log.Warnf("failed to write html report, falling back to json, error: %v", err)
		name, err = ToJSON(r, out.Path)
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}

	for _, f := range files {
		log.Printf("Output file is saved in: %s", config.Yellow(f))
	}

	return files, nil
}
