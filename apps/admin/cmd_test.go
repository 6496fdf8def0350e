package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/tests"
)

func setup(t *testing.T, db *sql.DB) (*commandLine, *testutil.Env, *bytes.Buffer) {
	env := testutil.NewEnv(t, 30*time.Minute, nil)
	out := new(bytes.Buffer)
	return &commandLine{
		db:     db,
		svc:    env.Service,
		roster: roster.Default(),
		out:    out,
	}, env, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string // substring
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want an error")
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _, out := setup(t, nil)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate without postgres", args: []string{"migrate", "up"}, wantErrStr: "migrations need the postgres storage"},
		{name: "simulate: no subject", args: []string{"simulate", "-room", "CS-101"}, wantErr: errHelp},
		{name: "simulate: bad duration", args: []string{"simulate", "-for", "soon"}, wantErrStr: `invalid value "soon" for flag -for: parse error`},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, out := setup(t, &sql.DB{})

	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "rooms", "sql"}},
	})
}

func Test_commandLine_stats(t *testing.T) {
	cli, env, out := setup(t, nil)
	sess := env.OpenSession(t, "CS001", "Data Structures", "CS-101")
	env.Clock.At(time.Minute)
	env.Service.Claim(context.Background(), "S001", sess.Token)

	require.NoError(t, cli.run([]string{"admin", "stats"}))
	assert.Contains(t, out.String(), "Total students,3\n")
	assert.Contains(t, out.String(), "Average attendance,91%\n")
	assert.Contains(t, out.String(), "Excellent (90%+),2\n")
	assert.Contains(t, out.String(), "Present CS001,1\n")
	assert.Contains(t, out.String(), "Present CS002,0\n")

	out.Reset()
	cli.tty = true
	require.NoError(t, cli.run([]string{"admin", "stats"}))
	assert.Contains(t, out.String(), "Total teachers      2\n")
}

func Test_commandLine_report(t *testing.T) {
	cli, _, out := setup(t, nil)

	require.NoError(t, cli.run([]string{"admin", "report"}))
	assert.True(t, strings.HasPrefix(out.String(), "Student Name,Roll Number,Semester,Attendance %,Status\n"))

	dir, err := ioutil.TempDir("", "mahudhurio")
	require.NoError(t, err)
	path := filepath.Join(dir, "report.csv")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "report", "-out", path}))
	assert.Contains(t, out.String(), "report written to "+path)

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bob Smith,CS2021002,6,87%,Good")
}

func Test_commandLine_simulate(t *testing.T) {
	cli, env, out := setup(t, nil)

	require.NoError(t, cli.run([]string{
		"admin", "simulate",
		"-class", "CS002", "-subject", "Web Development", "-room", "CS-102",
		"-for", "5s", "-max", "3", "-every", "1ms",
	}))
	assert.Contains(t, out.String(), "Web Development in CS-102")
	assert.Contains(t, out.String(), "SIM001: accepted")
	assert.Contains(t, out.String(), "session closed: 3 participant(s) joined")

	_, ok, err := env.Registry.ActiveSession(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
