package target

import "github.com/sofmeright/crossfreight/src/platform"

// Entry is one known platform/architecture combination.
type Entry struct {
	Alias        string // short spec accepted on the command line
	Triple       string // canonical target triple
	FriendlyName string // stable label used as the artifact suffix
	OS           string // normalized OS family
}

// Group is an alias that expands to several catalog entries.
type Group struct {
	Name string
	OS   string // OS family filter; empty selects every entry
}

// NativeSpec resolves to the host's own triple.
const NativeSpec = "native"

var catalog = []Entry{
	{Alias: "macos-arm64", Triple: "aarch64-apple-darwin", FriendlyName: "macos-aarch64", OS: platform.OSMacOS},
	{Alias: "macos-x86_64", Triple: "x86_64-apple-darwin", FriendlyName: "macos-x86_64", OS: platform.OSMacOS},
	{Alias: "linux-arm64", Triple: "aarch64-unknown-linux-gnu", FriendlyName: "linux-aarch64", OS: platform.OSLinux},
	{Alias: "linux-x86_64", Triple: "x86_64-unknown-linux-gnu", FriendlyName: "linux-x86_64", OS: platform.OSLinux},
}

var groups = []Group{
	{Name: "all"},
	{Name: "macos", OS: platform.OSMacOS},
	{Name: "linux", OS: platform.OSLinux},
}

// Catalog returns every known entry in definition order.
func Catalog() []Entry {
	return append([]Entry(nil), catalog...)
}

// Groups returns the group aliases in definition order.
func Groups() []Group {
	return append([]Group(nil), groups...)
}

// Members returns the catalog aliases a group expands to, in catalog order.
func (g Group) Members() []string {
	var out []string
	for _, e := range catalog {
		if g.OS == "" || e.OS == g.OS {
			out = append(out, e.Alias)
		}
	}
	return out
}

// LookupAlias finds a catalog entry by its alias.
func LookupAlias(alias string) (Entry, bool) {
	for _, e := range catalog {
		if e.Alias == alias {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupTriple finds a catalog entry by its triple.
func LookupTriple(triple string) (Entry, bool) {
	for _, e := range catalog {
		if e.Triple == triple {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupGroup finds a group alias by name.
func LookupGroup(name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// IsGroup reports whether spec names a group alias.
func IsGroup(spec string) bool {
	_, ok := LookupGroup(spec)
	return ok
}
