package tree

import "strings"

// NameToIDs splits a dotted route name into its cumulative ancestor
// full names, root first: "users.admin.edit" becomes
// ["users", "users.admin", "users.admin.edit"].
//
// Route names with 0-4 dots — the overwhelming majority in practice —
// take a fast path that scans for dots with IndexByte instead of
// allocating via strings.Split; deeper names fall back to the general
// path. Both paths must produce identical results; the test suite
// exercises both explicitly.
func NameToIDs(name string) []string {
	if name == "" {
		return nil
	}

	dots := make([]int, 0, 4)
	from := 0
	for {
		idx := strings.IndexByte(name[from:], '.')
		if idx < 0 {
			break
		}
		abs := from + idx
		dots = append(dots, abs)
		from = abs + 1
		if len(dots) > 4 {
			return nameToIDsGeneral(name)
		}
	}

	ids := make([]string, 0, len(dots)+1)
	for _, pos := range dots {
		ids = append(ids, name[:pos])
	}
	ids = append(ids, name)
	return ids
}

func nameToIDsGeneral(name string) []string {
	parts := strings.Split(name, ".")
	ids := make([]string, len(parts))
	acc := parts[0]
	ids[0] = acc
	for i := 1; i < len(parts); i++ {
		acc = acc + "." + parts[i]
		ids[i] = acc
	}
	return ids
}
