// Package event provides the Event type served by ai-news-events.
//
// An event is a short, published news item carrying a category, a location and
// an ISO-8601 publication timestamp. Events are authored ahead of time and never
// change while the process runs, so the package only offers validation, copying
// and ordering helpers.
package event
