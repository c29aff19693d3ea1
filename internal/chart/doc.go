// Package chart draws prediction explanations with go-echarts. The output
// is a self-contained HTML page that the web UI embeds in an iframe.
package chart
