package domain

import "time"

// BlogPost is a static post authored in markdown and rendered to HTML on read.
type BlogPost struct {
	Slug        string
	Title       string
	Author      string
	Tags        []string
	Markdown    string
	PublishedAt time.Time
}
