package planner

// ContentDay is one day's entry in a content plan.
type ContentDay struct {
	Day            string   `json:"day"`
	Theme          string   `json:"theme"`
	PostType       string   `json:"postType"`
	ContentIdea    string   `json:"contentIdea"`
	CaptionEnglish string   `json:"captionEnglish"`
	CaptionArabic  string   `json:"captionArabic"`
	Hashtags       []string `json:"hashtags"`
	BestTime       string   `json:"bestTime"`
}

// ContentPlan is a weekly social media plan. Schedule order is the order the
// provider returned and is never re-sorted.
type ContentPlan struct {
	WeekGoal string       `json:"weekGoal"`
	Schedule []ContentDay `json:"schedule"`
}
