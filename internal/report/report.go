package report

import (
	"runtime"
	"time"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/pkg/finding"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/host"
	log "github.com/sirupsen/logrus"
)

type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
}

type Summary struct {
	Total         int `json:"total"`
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	Unknown       int `json:"unknown"`
	Exploited     int `json:"exploited"`
	Configuration int `json:"configuration"`
}

// Report is the document written by every renderer.
type Report struct {
	ScanID    string             `json:"scan_id"`
	Version   string             `json:"version"`
	Generated string             `json:"generated"`
	Host      HostInfo           `json:"host"`
	Summary   Summary            `json:"summary"`
	Findings  []*finding.Finding `json:"findings"`
}

// New wraps ranked findings into a Report stamped with now.
func New(findings []*finding.Finding, now time.Time) *Report {
	if findings == nil {
		findings = []*finding.Finding{}
	}

	return &Report{
		ScanID:    uuid.NewString(),
		Version:   config.Version,
		Generated: now.Format(finding.TimeLayout),
		Host:      getHostInfo(),
		Summary:   Summarize(findings),
		Findings:  findings,
	}
}

func Summarize(findings []*finding.Finding) Summary {
	s := Summary{Total: len(findings)}

	for _, f := range findings {
		switch f.Severity {
		case finding.SeverityCritical:
			s.Critical += 1
		case finding.SeverityHigh:
			s.High += 1
		case finding.SeverityMedium:
			s.Medium += 1
		case finding.SeverityLow:
			s.Low += 1
		default:
			s.Unknown += 1
		}

		if f.Exploited {
			s.Exploited += 1
		}
		if f.Kind == finding.Configuration {
			s.Configuration += 1
		}
	}

	return s
}

func getHostInfo() HostInfo {
	info := HostInfo{}

	hInfo, err := host.Info()
	if err != nil {
		log.Debugf("failed to get host info, error: %v", err)
	} else {
		info.Hostname = hInfo.Hostname
		info.OS = hInfo.OS
		info.Platform = hInfo.Platform
		info.PlatformVersion = hInfo.PlatformVersion
		info.KernelVersion = hInfo.KernelVersion
		info.Arch = hInfo.KernelArch
	}

	if info.OS == "" {
		info.OS = runtime.GOOS
	}
	if info.Arch == "" {
		info.Arch = runtime.GOARCH
	}

	return info
}
