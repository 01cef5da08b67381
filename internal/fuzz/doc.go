// Package fuzztests houses Go fuzz harnesses for the include scanner and
// rewriter. They feed arbitrary bytes through scan and rewrite and check
// that nothing panics and that a rewrite is a fixed point.
package fuzztests
