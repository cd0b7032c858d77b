// Package chart renders a delta series as a bar chart with gonum/plot.
//
// Rendering is stateless: every call builds a fresh plot from Options, so
// nothing carries over between charts. Write encodes to any io.Writer, so
// callers choose how the file is created.
package chart
