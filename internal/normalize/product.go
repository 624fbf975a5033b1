package normalize

import (
	"encoding/xml"
	"fmt"
)

// Wire structs for one product document. Only the attributes the normalizer
// consumes are mapped; everything else is dropped by the decoder.

type productDoc struct {
	XMLName xml.Name
	Product *productElem `xml:"Product"`
}

type productElem struct {
	ID          string       `xml:"ID,attr"`
	Title       string       `xml:"Title,attr"`
	Name        string       `xml:"Name,attr"`
	HighPic     string       `xml:"HighPic,attr"`
	Supplier    *namedElem   `xml:"Supplier"`
	Description *productDesc `xml:"ProductDescription"`
	Category    *categoryRef `xml:"Category"`

	FeatureGroups []featureGroupElem `xml:"CategoryFeatureGroup"`
	Features      []productFeature   `xml:"ProductFeature"`
	Pictures      []productPicture   `xml:"ProductGallery>ProductPicture"`
}

type namedElem struct {
	Name string `xml:"Name,attr"`
}

type productDesc struct {
	LongDesc string `xml:"LongDesc,attr"`
}

type valueElem struct {
	Value string `xml:"Value,attr"`
}

type categoryRef struct {
	Name *valueElem `xml:"Name"`
}

type featureGroupElem struct {
	ID           string `xml:"ID,attr"`
	No           string `xml:"No,attr"`
	FeatureGroup *struct {
		Name *valueElem `xml:"Name"`
	} `xml:"FeatureGroup"`
}

type productFeature struct {
	PresentationValue string `xml:"Presentation_Value,attr"`
	LocalID           string `xml:"Local_ID,attr"`
	GroupID           string `xml:"CategoryFeatureGroup_ID,attr"`
	Feature           *struct {
		Name *valueElem `xml:"Name"`
	} `xml:"Feature"`
}

type productPicture struct {
	Pic500x500 string `xml:"Pic500x500,attr"`
	Pic        string `xml:"Pic,attr"`
	Original   string `xml:"Original,attr"`
	HighPic    string `xml:"HighPic,attr"`
}

// parseProduct decodes a raw document and locates the product node, which is
// either a child of the envelope root or the root itself.
func parseProduct(data []byte) (*productElem, error) {
	var doc productDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse product document: %w", err)
	}
	if doc.Product != nil {
		return doc.Product, nil
	}
	if doc.XMLName.Local == "Product" {
		var p productElem
		if err := xml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse product root: %w", err)
		}
		return &p, nil
	}
	return nil, nil
}
