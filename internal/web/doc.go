// Package web serves the events JSON API and the HTML pages built on it.
//
// The JSON API answers from the in-process store. The HTML pages read through a
// Source, which is the same store by default, or the events API of another
// server when an API base URL is configured.
package web
