// internal/app/versioning/snapshot.go

// Package versioning writes wiki-style history for content owned by the
// system group. A version is appended only when an edit actually changes
// the content-defining fields, so metadata-only touches and trivial resaves
// leave no history behind. Snapshots always hold the pre-edit state.
package versioning

import (
	"sort"
	"strings"
)

// Fields is the versioned subset of a content item: only content-defining
// fields (title, lyrics, chart, …), never derived or denormalized ones.
type Fields map[string]string

// Canonical renders fields in a deterministic comparable form: keys sorted,
// one "key=value" per line, with backslash, newline, and '=' escaped so the
// encoding is unambiguous. Two field sets are structurally equal exactly
// when their canonical forms are byte-equal.
func Canonical(f Fields) string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(f[k]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Equal reports whether two field sets are structurally identical.
func Equal(a, b Fields) bool {
	return Canonical(a) == Canonical(b)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"=", `\=`,
)

func escape(s string) string {
	return escaper.Replace(s)
}
