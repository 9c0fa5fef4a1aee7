package execution

import (
	"testing"

	"sdtr/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuildInvocation(t *testing.T) {
	login := domain.Target{Name: "login", Path: "/results/tests/login"}
	reports := []string{"--junitxml", "/out/login-report.xml", "--html", "/out/login-report.html"}

	localArgs := func(workers string, headless string) []string {
		return []string{
			"--runner", "manual", "--browser", "chrome", "-s", "-v", "--capture", "no",
			"--host_index", "1", "--headless", headless, "-n", workers,
		}
	}
	join := func(parts ...[]string) []string {
		var out []string
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	pipeline := domain.PipelineMode{URL: "https://www.saucedemo.com", Username: "standard_user", Password: "secret_sauce"}

	tests := []struct {
		name string
		cfg  domain.ExecutionConfig
		want []string
	}{
		{
			name: "local",
			cfg:  domain.ExecutionConfig{Browser: domain.BrowserChrome, Headless: true, Workers: 5, Mode: domain.LocalMode{HostIndex: 1}},
			want: join(localArgs("5", "1"), reports, []string{login.Path}),
		},
		{
			name: "local with grid and load scope",
			cfg: domain.ExecutionConfig{
				Browser: domain.BrowserChrome, Workers: 3, Grid: "http://grid:4444/wd/hub",
				Mode: domain.LocalMode{HostIndex: 1}, LoadScope: map[string]struct{}{"login": {}},
			},
			want: join(localArgs("3", "0"), []string{"--grid", "http://grid:4444/wd/hub"}, reports,
				[]string{"--dist", "loadscope", login.Path}),
		},
		{
			name: "local single worker uses load scope",
			cfg:  domain.ExecutionConfig{Browser: domain.BrowserChrome, Headless: true, Workers: 1, Mode: domain.LocalMode{HostIndex: 1}},
			want: join(localArgs("1", "1"), reports, []string{"--dist", "loadscope", login.Path}),
		},
		{
			name: "pipeline never distributes",
			cfg: domain.ExecutionConfig{
				Browser: domain.BrowserFirefox, Headless: true, Workers: 1, Grid: "http://grid:4444/wd/hub",
				Mode: pipeline, LoadScope: map[string]struct{}{"login": {}},
			},
			want: join([]string{
				"--runner", "app", "--browser", "firefox",
				"--url", "https://www.saucedemo.com", "--username", "standard_user", "--password", "secret_sauce",
				"-v", "--capture", "sys", "--headless", "1",
				"--grid", "http://grid:4444/wd/hub",
			}, reports, []string{login.Path}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := BuildInvocation(tt.cfg, login, "/out")
			if diff := cmp.Diff(tt.want, inv.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, "/out/login-report.xml", inv.XMLReport)
			assert.Equal(t, "/out/login-report.html", inv.HTMLReport)
			assert.Equal(t, "/out/login-pytest.log", inv.LogFile)
			assert.Equal(t, login.Path, inv.Args[len(inv.Args)-1])
		})
	}
}

func TestBuildInvocation_OtherTargetNotInLoadScope(t *testing.T) {
	cfg := domain.ExecutionConfig{
		Browser: domain.BrowserChrome, Workers: 4, Mode: domain.LocalMode{},
		LoadScope: map[string]struct{}{"checkout": {}},
	}
	inv := BuildInvocation(cfg, domain.Target{Name: "cart", Path: "/r/tests/cart"}, "/out")
	assert.NotContains(t, inv.Args, "--dist")
	assert.NotContains(t, inv.Args, "--grid")
}

func TestInvocation_MaskedArgs(t *testing.T) {
	cfg := domain.ExecutionConfig{
		Browser: domain.BrowserChrome, Workers: 2,
		Mode: domain.PipelineMode{URL: "https://shop", Username: "standard_user", Password: "secret_sauce"},
	}
	inv := BuildInvocation(cfg, domain.Target{Name: "cart", Path: "/r/tests/cart"}, "/out")

	masked := inv.MaskedArgs()
	assert.NotContains(t, masked, "secret_sauce")
	assert.Contains(t, masked, maskedValue)
	assert.Contains(t, inv.Args, "secret_sauce", "masking must not touch the real arguments")

	local := BuildInvocation(domain.ExecutionConfig{Browser: domain.BrowserChrome, Workers: 2, Mode: domain.LocalMode{}},
		domain.Target{Name: "cart", Path: "/r/tests/cart"}, "/out")
	assert.Equal(t, local.Args, local.MaskedArgs())
}
