package dom

// Namespace URIs used by HTML parsing.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
	XLinkNamespace  = "http://www.w3.org/1999/xlink"
	XMLNamespace    = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace  = "http://www.w3.org/2000/xmlns/"
)

// QualName is a namespace-qualified element name.
type QualName struct {
	Prefix    string
	Namespace string
	Local     string
}

// HTMLName returns the qualified name of an HTML element.
func HTMLName(local string) QualName {
	return QualName{Namespace: HTMLNamespace, Local: local}
}

// String returns the name as it would appear in markup.
func (q QualName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}
