// Package scraper fetches RSS feeds and turns their items into events.
//
// Each configured feed supplies the category and location for its items.
// Item descriptions are often HTML; they are reduced to plain text for the
// event summary and content. The result is written to a data file that the
// server loads at startup.
package scraper
