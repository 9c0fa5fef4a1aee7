package execution

import (
	"path/filepath"
	"strconv"

	"sdtr/internal/domain"
)

const maskedValue = "******"

// Invocation is one fully built external test process call for a target
type Invocation struct {
	Target     domain.Target
	Args       []string
	XMLReport  string
	HTMLReport string
	LogFile    string

	// index of the password value in Args, -1 when there is none
	secretArg int
}

// ReportPaths returns where the external process writes a target's JUnit XML and HTML reports
func ReportPaths(outputDir, target string) (xmlReport, htmlReport string) {
	return filepath.Join(outputDir, target+"-report.xml"), filepath.Join(outputDir, target+"-report.html")
}

// LogPath returns the file receiving a target's process output
func LogPath(outputDir, target string) string {
	return filepath.Join(outputDir, target+"-pytest.log")
}

// BuildInvocation assembles the argument list for a target, in the order the suites' plugins expect
func BuildInvocation(cfg domain.ExecutionConfig, target domain.Target, outputDir string) Invocation {
	xmlReport, htmlReport := ReportPaths(outputDir, target.Name)
	inv := Invocation{
		Target:     target,
		XMLReport:  xmlReport,
		HTMLReport: htmlReport,
		LogFile:    LogPath(outputDir, target.Name),
		secretArg:  -1,
	}

	headless := "0"
	if cfg.Headless {
		headless = "1"
	}

	var args []string
	local := false
	switch m := cfg.Mode.(type) {
	case domain.PipelineMode:
		args = append(args,
			"--runner", "app",
			"--browser", string(cfg.Browser),
			"--url", m.URL,
			"--username", m.Username,
			"--password", m.Password,
		)
		inv.secretArg = len(args) - 1
		args = append(args,
			"-v",
			"--capture", "sys",
			"--headless", headless,
		)
	case domain.LocalMode:
		local = true
		args = append(args,
			"--runner", "manual",
			"--browser", string(cfg.Browser),
			"-s", "-v",
			"--capture", "no",
			"--host_index", strconv.Itoa(m.HostIndex),
			"--headless", headless,
			"-n", strconv.Itoa(cfg.Workers),
		)
	}

	if cfg.Grid != "" {
		args = append(args, "--grid", cfg.Grid)
	}
	args = append(args, "--junitxml", xmlReport, "--html", htmlReport)
	if local && (cfg.InLoadScope(target.Name) || cfg.Workers == 1) {
		args = append(args, "--dist", "loadscope")
	}
	args = append(args, target.Path)

	inv.Args = args
	return inv
}

// MaskedArgs returns the arguments with the password replaced, for logging
func (i Invocation) MaskedArgs() []string {
	masked := append([]string(nil), i.Args...)
	if i.secretArg >= 0 && i.secretArg < len(masked) {
		masked[i.secretArg] = maskedValue
	}
	return masked
}
