package normalize

import (
	"net/url"
	"strings"
)

// picturePriority is the fixed attribute preference for image selection:
// the first attribute, scanned across every picture, that yields an absolute
// URL wins.
var picturePriority = []func(*productPicture) string{
	func(p *productPicture) string { return p.Pic500x500 },
	func(p *productPicture) string { return p.Pic },
	func(p *productPicture) string { return p.Original },
	func(p *productPicture) string { return p.HighPic },
}

// selectImage picks the record image from the gallery pictures plus the
// product-level high-resolution picture, upgrading plain http to https.
func selectImage(p *productElem) string {
	candidates := p.Pictures
	if p.HighPic != "" {
		candidates = append(candidates, productPicture{HighPic: p.HighPic})
	}

	for _, get := range picturePriority {
		for i := range candidates {
			if u := get(&candidates[i]); absoluteURL(u) {
				return upgradeScheme(u)
			}
		}
	}
	return ""
}

func absoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func upgradeScheme(s string) string {
	if strings.HasPrefix(s, "http://") {
		return "https://" + strings.TrimPrefix(s, "http://")
	}
	return s
}
