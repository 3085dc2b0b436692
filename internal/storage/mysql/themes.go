package mysql

import "strings"

// themeSep delimits the persisted theme list. Theme names never contain a
// semicolon, so the encoding is lossless and keeps order.
const themeSep = "; "

func EncodeThemes(themes []string) string {
	return strings.Join(themes, themeSep)
}

func DecodeThemes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, themeSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
