package model

// DefaultPostCategory is used when a post is created without a category.
const DefaultPostCategory = "POST"

// Post is a user-submitted food photo post.
//
// MediaURLs holds either inlined data URIs or bucket links, in upload order.
// It is never nil on the way out so clients always get a JSON array.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MediaURLs   []string `json:"mediaUrls"`
	Category    string   `json:"category"`
}
