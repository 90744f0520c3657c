// Package chart builds chart requests and delivers their results.
//
// A request is a set of form fields in the Google Image Charts dialect (cht,
// chs, chd, chl, chdl, chco).  A Requester turns a request into raw image
// bytes; GoogleClient posts it to the remote chart service and
// EChartsRenderer renders pie requests locally.  Deliver writes whatever
// bytes come back to the output path without inspecting them.
package chart
