// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
defaults:
  vertica_server: 10.0.0.5
jobs:
  - name: sales/orders
    hive_table: sales.orders
    vertica_table: dwh.orders
    partition_column: day
    partition_value: ${ds}
  - name: crm/customers
    hive_table: crm.customers
    vertica_table: dwh.customers
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config file should succeed")
	return path
}

func TestCompileAdHoc(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "partitioned",
			args: []string{"compile", "--hive-table", "sales.orders", "--vertica-table", "dwh.orders", "--partition-column", "day", "--partition-value", "2019-03-03"},
			want: `/opt/vertica/bin/vsql -U dbadmin -h 127.0.0.1 DWH -c "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/day=2019-03-03/*' ORC(hive_partition_cols='day');"`,
		},
		{
			name: "statement_only",
			args: []string{"compile", "--statement-only", "--hive-table", "sales.orders", "--vertica-table", "dwh.orders"},
			want: "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/*/*' ORC;",
		},
		{
			name: "custom_target",
			args: []string{"compile", "--hive-table", "sales.orders", "--vertica-table", "dwh.orders", "--vertica-server", "vertica-01", "--vertica-database", "BI"},
			want: `/opt/vertica/bin/vsql -U dbadmin -h vertica-01 BI -c "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/*/*' ORC;"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			require.NoError(t, err, "compile should succeed")
			assert.Equal(t, tt.want+"\n", stdout, "stdout should be the compiled line")
			assert.Contains(t, stderr, "compiled", "console should report the task")
		})
	}
}

func TestCompileAdHocErrors(t *testing.T) {
	_, _, err := execute(t, "compile", "--hive-table", "ordersonly", "--vertica-table", "dwh.orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed table reference")

	_, _, err = execute(t, "compile", "--hive-table", "sales.orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertica_table is required")

	_, _, err = execute(t, "compile", "--hive-table", "sales.orders", "--vertica-table", `dwh.orders"; id; "`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsafe value")
}

func TestCompileConfig(t *testing.T) {
	path := writeConfig(t, "jobs.yaml", testConfig)

	stdout, _, err := execute(t, "compile", "-c", path, "--ds", "2019-03-03", "--statement-only")
	require.NoError(t, err)
	assert.Equal(t,
		"COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/day=2019-03-03/*' ORC(hive_partition_cols='day');\n"+
			"COPY dwh.customers FROM 'hdfs:///apps/hive/warehouse/crm.db/customers/*/*' ORC;\n",
		stdout)

	stdout, _, err = execute(t, "compile", "-c", path, "--job", "crm/*")
	require.NoError(t, err)
	assert.Equal(t, `/opt/vertica/bin/vsql -U dbadmin -h 10.0.0.5 DWH -c "COPY dwh.customers FROM 'hdfs:///apps/hive/warehouse/crm.db/customers/*/*' ORC;"`+"\n", stdout)

	_, _, err = execute(t, "compile", "-c", path, "--job", "hr/*")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no job matches "hr/*"`)
}

func TestCompileHCLConfig(t *testing.T) {
	path := writeConfig(t, "jobs.hcl", `
client {
  binary = "vsql"
  user   = "loader"
}

job "orders" {
  hive_table       = "sales.orders"
  vertica_table    = "dwh.orders"
  partition_column = "day"
  partition_value  = ds
}
`)

	stdout, stderr, err := execute(t, "compile", "--config", path, "--ds", "2020-01-31")
	require.NoError(t, err)
	assert.Contains(t, stderr, "hive2vertica • compiling 1 jobs from "+path)
	assert.Equal(t, `vsql -U loader -h 127.0.0.1 DWH -c "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/day=2020-01-31/*' ORC(hive_partition_cols='day');"`+"\n", stdout)
}

func TestList(t *testing.T) {
	path := writeConfig(t, "jobs.yaml", testConfig)

	stdout, stderr, err := execute(t, "list", "-c", path, "--ds", "2019-03-03")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 jobs from "+path)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3, "header plus one row per job")
	assert.Contains(t, lines[0], "JOB")
	assert.Contains(t, lines[0], "COLOR")
	assert.Contains(t, lines[1], "sales/orders")
	assert.Contains(t, lines[1], "#aaede4", "operator color should be shown")
	assert.Contains(t, lines[1], "hdfs:///apps/hive/warehouse/sales.db/orders/day=2019-03-03/*")
	assert.Contains(t, lines[2], "dwh.customers")
}

func TestRunDryRun(t *testing.T) {
	path := writeConfig(t, "jobs.yaml", testConfig)

	compiled, _, err := execute(t, "compile", "-c", path, "--ds", "2019-03-03")
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "run", "-c", path, "--ds", "2019-03-03", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, compiled, stdout, "dry run should print exactly the compiled command lines")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2, "one printed command per job")
	assert.Equal(t, `/opt/vertica/bin/vsql -U dbadmin -h 10.0.0.5 DWH -c "COPY dwh.customers FROM 'hdfs:///apps/hive/warehouse/crm.db/customers/*/*' ORC;"`, lines[1])
	assert.Contains(t, stderr, "hive2vertica • running jobs from "+path)
	assert.Contains(t, stderr, "dry run, commands are printed and not executed")
	assert.Contains(t, stderr, "2 tasks (dry-run)")
	assert.Contains(t, stderr, "2 jobs finished")
}

func TestRunDryRunAsync(t *testing.T) {
	path := writeConfig(t, "jobs.yaml", testConfig)

	compiled, _, err := execute(t, "compile", "-c", path, "--ds", "2019-03-03")
	require.NoError(t, err)

	stdout, _, err := execute(t, "run", "-c", path, "--ds", "2019-03-03", "--dry-run", "--async")
	require.NoError(t, err)

	got := strings.Split(strings.TrimSpace(stdout), "\n")
	want := strings.Split(strings.TrimSpace(compiled), "\n")
	assert.ElementsMatch(t, want, got, "async dry run should print every compiled line whole")
}

func TestRunParallelWithoutAsync(t *testing.T) {
	path := writeConfig(t, "jobs.yaml", testConfig)

	_, stderr, err := execute(t, "run", "-c", path, "--dry-run", "--parallel", "8")
	require.NoError(t, err)
	assert.Contains(t, stderr, "--parallel 8 has no effect without --async")
}

func TestRunExecutes(t *testing.T) {
	// a stand-in client that echoes the statement it was given
	dir := t.TempDir()
	client := filepath.Join(dir, "vsql")
	require.NoError(t, os.WriteFile(client, []byte("#!/bin/sh\nshift 6\necho \"$1\"\n"), 0755))

	path := writeConfig(t, "jobs.hcl", `
client {
  binary = "`+client+`"
}

job "orders" {
  hive_table    = "sales.orders"
  vertica_table = "dwh.orders"
}
`)

	stdout, _, err := execute(t, "run", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/*/*' ORC;\n", stdout)
}

func TestRunFailure(t *testing.T) {
	dir := t.TempDir()
	client := filepath.Join(dir, "vsql")
	require.NoError(t, os.WriteFile(client, []byte("#!/bin/sh\nexit 2\n"), 0755))

	path := writeConfig(t, "jobs.yaml", "client:\n  binary: "+client+"\njobs:\n  - name: orders\n    hive_table: sales.orders\n    vertica_table: dwh.orders\n")
	_, stderr, err := execute(t, "run", "-c", path, "--async")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running jobs (1 failed, exit code 2)")
	assert.Contains(t, err.Error(), "exit status 2")
	assert.Contains(t, stderr, "failed")
	assert.Contains(t, stderr, "1 of 1 jobs failed")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hive2vertica version info")
	assert.Contains(t, stdout, "hive_to_vertica")

	stdout, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"operators": [`)
}
