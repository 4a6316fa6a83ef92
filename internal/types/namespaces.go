package types

// Namespace URIs the resolver recognises.
const (
	XSDNamespace   = "http://www.w3.org/2001/XMLSchema"
	WSDLNamespace  = "http://schemas.xmlsoap.org/wsdl/"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
)
