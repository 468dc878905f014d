package model

// DecorationTip is a plating/decoration article. No field is validated;
// every value is stored exactly as the client sent it.
type DecorationTip struct {
	ID          string   `json:"id"          firestore:"id"`
	Title       string   `json:"title"       firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Category    string   `json:"category"    firestore:"category"`
	Difficulty  string   `json:"difficulty"  firestore:"difficulty"`
	Media       []string `json:"media"       firestore:"media"`
	Author      string   `json:"author"      firestore:"author"`
	Tip         string   `json:"tip"         firestore:"tip"`
	MediaType   string   `json:"mediaType"   firestore:"mediaType"`
	CreatedAt   string   `json:"createdAt"   firestore:"createdAt"`
}
