package normalize

import "testing"

func TestSelectImage_AttributePriority(t *testing.T) {
	p := &productElem{
		HighPic: "http://a/high.jpg",
		Pictures: []productPicture{
			{HighPic: "http://a/gallery-high.jpg"},
			{Pic500x500: "http://a/x.jpg"},
		},
	}

	// Pic500x500 on any picture beats HighPic everywhere, and the scheme
	// is upgraded.
	if got := selectImage(p); got != "https://a/x.jpg" {
		t.Errorf("got %q, want %q", got, "https://a/x.jpg")
	}
}

func TestSelectImage_ProductHighPicFallback(t *testing.T) {
	p := &productElem{HighPic: "https://a/high.jpg"}
	if got := selectImage(p); got != "https://a/high.jpg" {
		t.Errorf("got %q", got)
	}
}

func TestSelectImage_RejectsRelativeAndEmpty(t *testing.T) {
	p := &productElem{
		Pictures: []productPicture{
			{Pic500x500: "/relative/x.jpg"},
			{Pic: "not a url"},
		},
	}
	if got := selectImage(p); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
