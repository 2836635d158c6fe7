// Package templates holds the HTML views of the web UI. The *_templ.go files
// are generated from the .templ sources next to them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate
