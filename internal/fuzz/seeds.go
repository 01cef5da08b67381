package fuzztests

import (
	"fmt"
	"strings"
	"testing"

	"ec/internal/scan"
	"ec/internal/stdlib"
)

const maxFuzzInput = 64 << 10

var handSeeds = []string{
	"",
	"int main() {}\n",
	"#include <vector>//\nint main() { std::vector<int> v; }\n",
	"#include <set>//\n#include <map>//\nstd::map<int, int> m;\n",
	"// header\n#include <cstdio>//\nint main() { std::printf(\"x\"); }",
	"#include <bits/stdc++.h>\n#include <vector>//\nstd::string s;\n",
	"#include <vector>//\r\nstd::deque<int> d;\r\n",
	"std::cout << \"std::vector\" << '\\n'; // std::map\n",
	"/* std::set */ #include <queue>//\nstd::priority_queue<int> q;\n",
	"#include <vector>//",
	"#include <>//\n",
	"#include <vector> //\n",
	"std::\nstd:: vector\nstd ::vector\n::std::vector\n",
	"R\"(std::list)\" std::list<int> l;\n",
	scan.BOM + "#include <vector>//\nstd::vector<int> v;\n",
	scan.BOM + "std::map<int, int> m;\n",
	scan.BOM + scan.BOM + "#include <set>//\n",
}

func addSeeds(f *testing.F) {
	for _, s := range handSeeds {
		f.Add([]byte(s))
	}
	idx := stdlib.Build()
	for _, h := range idx.Headers() {
		var b strings.Builder
		b.WriteString(scan.HeaderLine(h))
		for _, sym := range idx.Symbols(h) {
			fmt.Fprintf(&b, "std::%s;\n", sym)
		}
		f.Add([]byte(b.String()))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
