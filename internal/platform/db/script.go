package db

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ParseScript splits a generated INSERT script into statements. Scripts hold
// one statement per line; blank lines, "--" comments, USE directives and GO
// batch separators are dropped since the connection already selects the
// database. A statement may continue over several lines until its closing
// semicolon.
func ParseScript(r io.Reader) ([]string, error) {
	var (
		stmts []string
		buf   strings.Builder
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if buf.Len() == 0 {
			if line == "" || strings.HasPrefix(line, "--") || isBatchDirective(line) {
				continue
			}
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		if strings.HasSuffix(line, ";") {
			stmts = append(stmts, strings.TrimSuffix(buf.String(), ";"))
			buf.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts, nil
}

func isBatchDirective(line string) bool {
	upper := strings.ToUpper(strings.TrimSuffix(line, ";"))
	return upper == "GO" || strings.HasPrefix(upper, "USE ")
}

// LoadScript parses r and executes every statement in one transaction,
// returning the number of statements run.
func (d *Database) LoadScript(ctx context.Context, r io.Reader) (int, error) {
	lines, err := ParseScript(r)
	if err != nil {
		return 0, err
	}

	stmts := make([]Stmt, len(lines))
	for i, line := range lines {
		stmts[i] = Stmt{SQL: line}
	}
	if err := d.ExecAll(ctx, stmts...); err != nil {
		return 0, err
	}
	return len(stmts), nil
}
