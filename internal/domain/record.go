package domain

// RecordCategory is the category sub-record embedded in a persisted article.
type RecordCategory struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RecordImage is the featured-image sub-record.
type RecordImage struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"altText"`
}

// Record is the structured shape an article is persisted as, keyed by slug.
// The field set and tag names are the contract with the site frontend; do not
// rename them.
type Record struct {
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	ID            int              `json:"id"`
	Status        string           `json:"status"`
	PostType      string           `json:"post_type"`
	URI           string           `json:"uri"`
	Date          string           `json:"date"`
	Modified      string           `json:"modified"`
	Content       string           `json:"content"`
	Excerpt       string           `json:"excerpt"`
	WordCount     int              `json:"wordCount"`
	ArticleType   ArticleType      `json:"articleType"`
	Categories    []RecordCategory `json:"categories"`
	PageType      string           `json:"pageType"`
	FeaturedImage RecordImage      `json:"featuredImage"`
}

// ToArticle converts a persisted record back into a pipeline work unit so the
// audit and repair modes can reuse the QC and fix engines.
func (r Record) ToArticle() Article {
	a := Article{
		Title:     r.Title,
		Slug:      r.Slug,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		ArticleID: r.ID,
		ImageURL:  r.FeaturedImage.SourceURL,
		ImageAlt:  r.FeaturedImage.AltText,
		Date:      r.Date,
		Type:      r.ArticleType,
	}
	if a.Type == "" {
		a.Type = TypeCluster
	}
	if len(r.Categories) > 0 {
		a.CategoryID = r.Categories[0].ID
		a.CategorySlug = r.Categories[0].Slug
		a.CategoryName = r.Categories[0].Name
		a.CategoryDescription = r.Categories[0].Description
	}
	return a
}
