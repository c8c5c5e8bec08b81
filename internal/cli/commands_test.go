package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/nix-shell-wrapper/internal/cli"
	"github.com/hbjs97/nix-shell-wrapper/internal/dispatch"
	"github.com/hbjs97/nix-shell-wrapper/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testConfig = `version = 1
system = "x86_64-linux"
`

// newTestApp creates an App with a FakeCommander, a config file holding
// cfg and an environment made of env only.
func newTestApp(t *testing.T, fc *testutil.FakeCommander, cfg string, env map[string]string) *cli.App {
	t.Helper()
	return &cli.App{
		Commander: fc,
		CfgPath:   testutil.TempConfigFile(t, cfg),
		Logger:    zap.NewNop(),
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
	}
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()
	cmd := app.NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lastExec(t *testing.T, fc *testutil.FakeCommander) testutil.ExecCall {
	t.Helper()
	call, ok := fc.LastExec()
	require.True(t, ok, "Exec was not called")
	return call
}

// withHome points $HOME at a fresh canonical directory.
func withHome(t *testing.T) string {
	t.Helper()
	home := testutil.TempDir(t)
	t.Setenv("HOME", home)
	return home
}

// --- Mode commands ---

func TestFallback_ExecsExprs(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "hello")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, "nix", call.Name)
	require.Len(t, call.Args, 4)
	assert.Equal(t, []string{"shell", "--impure", "--expr"}, call.Args[:3])
	assert.Equal(t, `let
  nixpkgs = builtins.getFlake "nixpkgs";
  pkgs = import nixpkgs { system = "x86_64-linux"; };
in
with pkgs; [(hello) ]`, call.Args[3])
	assert.Equal(t, map[string]string{dispatch.EnvDescriptions: "hello"}, call.Env)
}

func TestFallback_EquivalentToExprs(t *testing.T) {
	t.Parallel()

	fallback := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fallback, testConfig, nil), "hello", "cowsay")
	require.NoError(t, err)

	exprs := testutil.NewFakeCommander()
	_, err = execute(t, newTestApp(t, exprs, testConfig, nil), "exprs", "hello", "cowsay")
	require.NoError(t, err)

	assert.Equal(t, lastExec(t, exprs), lastExec(t, fallback))
	assert.Equal(t, "hello+cowsay", lastExec(t, exprs).Env[dispatch.EnvDescriptions])
}

func TestExprs_FlakeFlag(t *testing.T) {
	t.Parallel()

	flake := testutil.TempFlake(t, "mine")
	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "exprs", "--flake=my="+flake, "hello")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Contains(t, call.Args[3], fmt.Sprintf("  my = builtins.getFlake %q;\n", flake))
	assert.Contains(t, call.Args[3], "with pkgs; [(hello) ]")
	assert.Equal(t, "hello", call.Env[dispatch.EnvDescriptions])
}

func TestExprs_RepeatedFlakeFlag(t *testing.T) {
	t.Parallel()

	a := testutil.TempFlake(t, "a")
	b := testutil.TempFlake(t, "b")
	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil),
		"exprs", "--flake", "a="+a, "--flake", "b="+b, "a.packages.x86_64-linux.default")
	require.NoError(t, err)

	expr := lastExec(t, fc).Args[3]
	assert.Contains(t, expr, fmt.Sprintf("a = builtins.getFlake %q;", a))
	assert.Contains(t, expr, fmt.Sprintf("b = builtins.getFlake %q;", b))
}

func TestRoot_FlakeFlagWithFallback(t *testing.T) {
	t.Parallel()

	flake := testutil.TempFlake(t, "mine")
	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "--flake", "my="+flake, "my.hello")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Contains(t, call.Args[3], fmt.Sprintf("my = builtins.getFlake %q;", flake))
	assert.Equal(t, "my.hello", call.Env[dispatch.EnvDescriptions])
}

func TestExprs_FlakeFlagErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag string
	}{
		{"missing path", "my=/nonexistent/flake"},
		{"no equals", "my"},
		{"empty path", "my="},
		{"invalid name", "1my=/"},
		{"reserved name", "pkgs=/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fc := testutil.NewFakeCommander()
			_, err := execute(t, newTestApp(t, fc, testConfig, nil), "exprs", "--flake", tt.flag, "hello")
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, cli.MapExitCode(err))
			assert.Empty(t, fc.Execs)
		})
	}
}

func TestExprs_RequiresExpression(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "exprs")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrUsage)
	assert.Empty(t, fc.Execs)
}

func TestExprs_NestedDescriptions(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	app := newTestApp(t, fc, testConfig, map[string]string{dispatch.EnvDescriptions: "~/proj"})
	_, err := execute(t, app, "exprs", "hello")
	require.NoError(t, err)

	assert.Equal(t, "~/proj hello", lastExec(t, fc).Env[dispatch.EnvDescriptions])
}

func TestExprs_SystemFlakeFromEnv(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	app := newTestApp(t, fc, testConfig, map[string]string{"NIX_SHELL_WRAPPER_FLAKE": "/etc/nixos"})
	_, err := execute(t, app, "exprs", "hello")
	require.NoError(t, err)

	expr := lastExec(t, fc).Args[3]
	assert.Contains(t, expr, `systemFlake = builtins.getFlake "/etc/nixos";`)
	assert.Contains(t, expr, `with systemFlake.nix-shell-wrapper-pkgs."x86_64-linux".default; [`)
	assert.NotContains(t, expr, "import nixpkgs")
}

func TestExprs_ConfigFlakes(t *testing.T) {
	t.Parallel()

	work := testutil.TempFlake(t, "work")
	override := testutil.TempFlake(t, "override")
	cfg := testConfig + fmt.Sprintf("\n[flakes]\nwork = %q\n", work)

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, cfg, nil), "exprs", "work.hello")
	require.NoError(t, err)
	assert.Contains(t, lastExec(t, fc).Args[3], fmt.Sprintf("work = builtins.getFlake %q;", work))

	fc = testutil.NewFakeCommander()
	_, err = execute(t, newTestApp(t, fc, cfg, nil), "exprs", "--flake", "work="+override, "work.hello")
	require.NoError(t, err)
	expr := lastExec(t, fc).Args[3]
	assert.Contains(t, expr, fmt.Sprintf("work = builtins.getFlake %q;", override))
	assert.NotContains(t, expr, work+`"`)
}

func TestExprs_LongExpressionLabel(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "exprs", "a whole new wooorld", "hello")
	require.NoError(t, err)

	assert.Equal(t, "a·whole·new…+hello", lastExec(t, fc).Env[dispatch.EnvDescriptions])
}

func TestShell_Path(t *testing.T) {
	home := withHome(t)
	path := testutil.WriteFile(t, home, "proj/shell.nix", "{}")

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "shell", path)
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, "nix-shell", call.Name)
	assert.Equal(t, []string{path}, call.Args)
	assert.Equal(t, "~/proj/shell.nix", call.Env[dispatch.EnvDescriptions])
}

func TestShell_DefaultPath(t *testing.T) {
	home := withHome(t)
	testutil.WriteFile(t, home, "proj/shell.nix", "{}")
	t.Chdir(filepath.Join(home, "proj"))

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "shell")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, []string{"./shell.nix"}, call.Args)
	assert.Equal(t, "~/proj/shell.nix", call.Env[dispatch.EnvDescriptions])
}

func TestShell_MissingPath(t *testing.T) {
	withHome(t)

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "shell", "/nonexistent/shell.nix")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to canonicalize /nonexistent/shell.nix")
	assert.Equal(t, cli.ExitEnvironment, cli.MapExitCode(err))
	assert.Empty(t, fc.Execs)
}

func TestShell_TooManyArgs(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "shell", "a.nix", "b.nix")
	assert.Equal(t, cli.ExitUsage, cli.MapExitCode(err))
}

func TestFlake_CurrentDirectory(t *testing.T) {
	home := withHome(t)
	testutil.WriteFile(t, home, "proj/flake.nix", "{}")
	t.Chdir(filepath.Join(home, "proj"))

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "flake", ".")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, "nix", call.Name)
	assert.Equal(t, []string{"develop", "."}, call.Args)
	assert.Equal(t, "~/proj", call.Env[dispatch.EnvDescriptions])
}

func TestDerivation_Expression(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "derivation", "<nixpkgs/pkgs/hello>")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, []string{"shell", "--impure", "--expr"}, call.Args[:3])
	assert.Contains(t, call.Args[3], "with pkgs; [(callPackage <nixpkgs/pkgs/hello> {}) ]")
	assert.Equal(t, "<nixpkgs/pkgs…", call.Env[dispatch.EnvDescriptions])
}

func TestDerivation_FileWithArgs(t *testing.T) {
	home := withHome(t)
	testutil.WriteFile(t, home, "proj/default.nix", "{ stdenv }: stdenv.mkDerivation {}")
	t.Chdir(filepath.Join(home, "proj"))

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "derivation", "./default.nix", "{ enableFoo = true; }")
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Contains(t, call.Args[3], "proj/default.nix")
	assert.Contains(t, call.Args[3], " { enableFoo = true; }) ]")
	assert.NotContains(t, call.Args[3], "callPackage ./default.nix")
	assert.Equal(t, "./default.nix", call.Env[dispatch.EnvDescriptions])
}

func TestDerivation_RequiresDeriv(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "derivation")
	assert.Equal(t, cli.ExitUsage, cli.MapExitCode(err))
}

func TestAuto(t *testing.T) {
	home := withHome(t)
	testutil.WriteFile(t, home, "proj/flake.nix", "{}")
	t.Chdir(filepath.Join(home, "proj"))

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil))
	require.NoError(t, err)

	call := lastExec(t, fc)
	assert.Equal(t, []string{"develop", "."}, call.Args)
	assert.Equal(t, "~/proj", call.Env[dispatch.EnvDescriptions])
}

func TestAuto_NoShell(t *testing.T) {
	home := withHome(t)
	t.Chdir(home)

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrNoShell)
	assert.Equal(t, cli.ExitEnvironment, cli.MapExitCode(err))
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "--dry-run", "hello")
	require.NoError(t, err)
	assert.Empty(t, fc.Execs)

	assert.Equal(t, `NIX_SHELL_WRAPPER_DESCRIPTIONS=hello
nix
shell
--impure
--expr
'let
  nixpkgs = builtins.getFlake "nixpkgs";
  pkgs = import nixpkgs { system = "x86_64-linux"; };
in
with pkgs; [(hello) ]'
`, out)
}

func TestExecFailure(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	fc.ExecErr = fmt.Errorf("exec: \"nix\": executable file not found in $PATH")
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrExec)
	assert.Equal(t, cli.ExitExec, cli.MapExitCode(err))
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, "version = 2\n", nil), "hello")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.MapExitCode(err))
	assert.Empty(t, fc.Execs)
}

func TestConfigFlakeMissing(t *testing.T) {
	t.Parallel()

	cfg := testConfig + "\n[flakes]\ngone = \"/nonexistent/flake\"\n"
	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, cfg, nil), "hello")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.MapExitCode(err))
}

func TestUnknownFlag(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "--bogus")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.MapExitCode(err))
}

// --- Auxiliary commands ---

func TestPromptCmd(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "prompt", "--shell", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "_nsw_prompt")

	out, err = execute(t, newTestApp(t, fc, testConfig, nil), "prompt", "--shell", "fish", "--hook")
	require.NoError(t, err)
	assert.Contains(t, out, "nix-shell-wrapper prompt --shell fish | source")
}

func TestPromptCmd_UnsupportedShell(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, testConfig, nil), "prompt", "--shell", "tcsh")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.MapExitCode(err))
}

func TestDoctorCmd(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{Output: []byte("x86_64-linux")}
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "doctor")
	require.NoError(t, err)

	assert.Contains(t, out, "[OK] config")
	assert.Contains(t, out, "[OK] nix:")
	assert.Contains(t, out, "[OK] nix-shell:")
	assert.Contains(t, out, "[OK] system: x86_64-linux")
}

func TestDoctorCmd_BrokenConfig(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{Output: []byte("x86_64-linux")}
	out, err := execute(t, newTestApp(t, fc, "version = [", nil), "doctor")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrCheckFailed)
	assert.Equal(t, cli.ExitGeneral, cli.MapExitCode(err))

	assert.Contains(t, out, "[FAIL] config")
	assert.Contains(t, out, "[OK] nix:")
}

func TestDoctorCmd_FailingCheck(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	fc.Register("nix --version", "nix (Nix) 2.24.9", nil)
	fc.Register("nix-shell --version", "", fmt.Errorf("executable file not found"))
	fc.Register("nix eval", "x86_64-linux", nil)

	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "doctor")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrCheckFailed)
	assert.Contains(t, out, "[FAIL] nix-shell")
}

func TestDoctorCmd_WarningsDoNotFail(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{Output: []byte("aarch64-darwin")}
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[!!] system")
}

func TestVersionFlag(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, cli.Version)
	assert.Empty(t, fc.Execs)
}

func TestSubcommandsRegistered(t *testing.T) {
	t.Parallel()

	root := (&cli.App{Commander: testutil.NewFakeCommander()}).NewRootCmd()
	for _, name := range []string{"shell", "flake", "derivation", "exprs", "doctor", "prompt", "setup"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	cfgFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Contains(t, cfgFlag.DefValue, filepath.Join("nix-shell-wrapper", "config.toml"))

	exprs, _, err := root.Find([]string{"exprs"})
	require.NoError(t, err)
	require.NotNil(t, exprs.Flags().Lookup("flake"))
	assert.Equal(t, "NAME=PATH", exprs.Flags().Lookup("flake").Value.Type())
}

func TestConfigFlagOverridesPath(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	app := newTestApp(t, fc, testConfig, nil)
	other := testutil.TempConfigFile(t, "version = 1\nsystem = \"aarch64-darwin\"\n")

	_, err := execute(t, app, "--config", other, "hello")
	require.NoError(t, err)
	assert.Contains(t, lastExec(t, fc).Args[3], `system = "aarch64-darwin"`)
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	app := newTestApp(t, fc, testConfig, nil)
	app.CfgPath = filepath.Join(t.TempDir(), "absent.toml")

	_, err := execute(t, app, "hello")
	require.NoError(t, err)
	_, statErr := os.Stat(app.CfgPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigFlakeInvalidName(t *testing.T) {
	t.Parallel()

	cfg := testConfig + "\n[flakes]\n\"let\" = \"/tmp\"\n"
	fc := testutil.NewFakeCommander()
	_, err := execute(t, newTestApp(t, fc, cfg, nil), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.MapExitCode(err))
	assert.Empty(t, fc.Execs)
}

func TestReservedNamesReachableThroughExprs(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"doctor", "prompt", "setup", "help"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fc := testutil.NewFakeCommander()
			_, err := execute(t, newTestApp(t, fc, testConfig, nil), "exprs", name)
			require.NoError(t, err)

			call := lastExec(t, fc)
			assert.Contains(t, call.Args[3], "with pkgs; [("+name+") ]")
			assert.Equal(t, name, call.Env[dispatch.EnvDescriptions])
		})
	}
}

func TestRootHelpListsReservedNames(t *testing.T) {
	t.Parallel()

	fc := testutil.NewFakeCommander()
	out, err := execute(t, newTestApp(t, fc, testConfig, nil), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "doctor, prompt, setup, help")
	assert.Contains(t, out, "exprs prompt")
	assert.Empty(t, fc.Execs)
}
