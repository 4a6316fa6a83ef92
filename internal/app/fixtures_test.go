package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const serviceWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://example/service">
  <wsdl:import namespace="http://example/faults" location="faults.wsdl"/>
  <wsdl:types>
    <xs:schema targetNamespace="http://example/orders" xmlns:tns="http://example/orders">
      <xs:import namespace="http://example/common" schemaLocation="xsd/common.xsd"/>
      <xs:include schemaLocation="xsd/order.xsd"/>
      <xs:element name="order" type="tns:Order"/>
    </xs:schema>
  </wsdl:types>
</wsdl:definitions>
`

const faultsWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" targetNamespace="http://example/faults"/>
`

const commonXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://example/common">
  <xs:simpleType name="Money"><xs:restriction base="xs:decimal"/></xs:simpleType>
</xs:schema>
`

const orderXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:c="http://example/common" targetNamespace="http://example/orders">
  <xs:complexType name="Order">
    <xs:sequence><xs:element name="total" type="c:Money"/></xs:sequence>
  </xs:complexType>
</xs:schema>
`

// writeServiceFixture lays out a WSDL with a wsdl:import, an xsd:import and
// an xsd:include below dir and returns the WSDL path.
func writeServiceFixture(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"service.wsdl":   serviceWSDL,
		"faults.wsdl":    faultsWSDL,
		"xsd/common.xsd": commonXSD,
		"xsd/order.xsd":  orderXSD,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return filepath.Join(dir, "service.wsdl")
}
