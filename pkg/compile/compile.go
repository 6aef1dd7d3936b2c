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

package compile

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ⚙️ Defaults applied by New when a field is empty
const (
	DefaultServer        = "127.0.0.1"
	DefaultDatabase      = "DWH"
	DefaultWarehouseRoot = "hdfs:///apps/hive/warehouse"
	DefaultClientBinary  = "/opt/vertica/bin/vsql"
	DefaultClientUser    = "dbadmin"
)

// 🖥️ Client describes the vsql binary and the user it connects as
type Client struct {
	Binary string
	User   string
}

// 🔧 Options is the full configuration of one copy job
type Options struct {
	SourceTable      string // Hive table, schema.table
	DestinationTable string // Vertica table, schema-qualified
	PartitionColumn  string // optional
	PartitionValue   string // optional, only used with PartitionColumn
	Server           string // Vertica host, defaults to DefaultServer
	Database         string // Vertica database, defaults to DefaultDatabase
	WarehouseRoot    string // defaults to DefaultWarehouseRoot
	Client           Client // defaults to DefaultClientBinary / DefaultClientUser
}

// withDefaults returns a copy of the options with empty fields filled in.
func (o Options) withDefaults() Options {
	if o.Server == "" {
		o.Server = DefaultServer
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.WarehouseRoot == "" {
		o.WarehouseRoot = DefaultWarehouseRoot
	}
	o.WarehouseRoot = strings.TrimSuffix(o.WarehouseRoot, "/")
	if o.Client.Binary == "" {
		o.Client.Binary = DefaultClientBinary
	}
	if o.Client.User == "" {
		o.Client.User = DefaultClientUser
	}
	return o
}

// shellWord matches values that are passed to vsql as bare words.
var shellWord = regexp.MustCompile(`^[A-Za-z0-9_.:/@+-]+$`)

// validate checks the options after defaults have been applied.
func (o Options) validate() error {
	if o.SourceTable == "" {
		return errors.Errorf("source table is required")
	}
	if o.DestinationTable == "" {
		return errors.Errorf("destination table is required")
	}

	// everything that ends up inside -c "..."
	quoted := []struct{ field, value string }{
		{"destination table", o.DestinationTable},
		{"source table", o.SourceTable},
		{"partition column", o.PartitionColumn},
		{"partition value", o.PartitionValue},
		{"warehouse root", o.WarehouseRoot},
	}
	for _, q := range quoted {
		if i := strings.IndexFunc(q.value, breaksDoubleQuotes); i >= 0 {
			return unsafeValueError(q.field, q.value, fmt.Sprintf("contains %q", q.value[i]))
		}
	}

	// everything that ends up inside the '...' SQL literal
	for _, q := range quoted[1:] {
		if strings.ContainsRune(q.value, '\'') {
			return unsafeValueError(q.field, q.value, "contains a single quote")
		}
	}

	words := []struct{ field, value string }{
		{"client binary", o.Client.Binary},
		{"client user", o.Client.User},
		{"server", o.Server},
		{"database", o.Database},
	}
	for _, w := range words {
		if !shellWord.MatchString(w.value) {
			return unsafeValueError(w.field, w.value, "is not a plain shell word")
		}
	}

	return nil
}

// breaksDoubleQuotes reports runes the shell still interprets inside "...".
func breaksDoubleQuotes(r rune) bool {
	switch r {
	case '"', '\\', '$', '`':
		return true
	}
	return r < 0x20 || r == 0x7f
}

// 🎯 Compiler holds validated options and the strings derived from them
type Compiler struct {
	opts      Options
	location  string
	statement string
}

// 🏭 New validates the options and compiles them
func New(opts Options) (*Compiler, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	fragment := PartitionFragment(opts.PartitionColumn, opts.PartitionValue)
	location, err := SourceLocation(opts.WarehouseRoot, opts.SourceTable, fragment)
	if err != nil {
		return nil, err
	}

	return &Compiler{
		opts:      opts,
		location:  location,
		statement: Statement(opts.DestinationTable, location, PartitionColumnsClause(opts.PartitionColumn)),
	}, nil
}

// Options returns the options with defaults applied.
func (c *Compiler) Options() Options { return c.opts }

// Location returns the HDFS folder expression the COPY reads from.
func (c *Compiler) Location() string { return c.location }

// Statement returns the COPY statement.
func (c *Compiler) Statement() string { return c.statement }

// 📝 CommandLine returns the single-line vsql invocation
func (c *Compiler) CommandLine() string {
	return CommandLine(c.opts.Client, c.opts.Server, c.opts.Database, c.statement)
}

// 📝 Args returns the vsql invocation as argv, for running without a shell
func (c *Compiler) Args() []string {
	return []string{c.opts.Client.Binary, "-U", c.opts.Client.User, "-h", c.opts.Server, c.opts.Database, "-c", c.statement}
}

// 📦 Result is the output of Compile
type Result struct {
	Location    string
	Statement   string
	CommandLine string
	Args        []string
}

// 🎯 Compile is the one-shot form of New
func Compile(opts Options) (*Result, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Location:    c.Location(),
		Statement:   c.Statement(),
		CommandLine: c.CommandLine(),
		Args:        c.Args(),
	}, nil
}

// 🗂️ PartitionFragment returns the path below the table folder.
// Without both column and value every first- and second-level file matches.
func PartitionFragment(column, value string) string {
	if column != "" && value != "" {
		return column + "=" + value + "/*"
	}
	return "*/*"
}

// PartitionColumnsClause tells Vertica which column is encoded in the path.
func PartitionColumnsClause(column string) string {
	if column == "" {
		return ""
	}
	return "(hive_partition_cols='" + column + "')"
}

// 📍 SourceLocation returns <root>/<schema>.db/<table>/<fragment>
func SourceLocation(root, table, fragment string) (string, error) {
	schema, name, err := ParseTable(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s.db/%s/%s", root, schema, name, fragment), nil
}

// Statement returns COPY <destination> FROM '<location>' ORC<clause>;
func Statement(destination, location, clause string) string {
	return fmt.Sprintf("COPY %s FROM '%s' ORC%s;", destination, location, clause)
}

// CommandLine returns <binary> -U <user> -h <server> <database> -c "<statement>".
// The statement is inserted verbatim; callers go through New to get it validated.
func CommandLine(client Client, server, database, statement string) string {
	return fmt.Sprintf("%s -U %s -h %s %s -c \"%s\"", client.Binary, client.User, server, database, statement)
}
