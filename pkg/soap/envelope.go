// Package soap implements the subset of SOAP 1.1 used on the AC management
// channel: envelope encoding, fault handling and a request/response client.
package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

// EnvelopeNamespace is the SOAP 1.1 envelope namespace.
const EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Fault codes defined by SOAP 1.1, qualified with the envelope prefix.
const (
	FaultClient = "soap:Client"
	FaultServer = "soap:Server"
)

var (
	// ErrEncoding is returned when a payload cannot be converted to or from XML.
	ErrEncoding = errors.New("soap: encoding error")

	// ErrEmptyBody is returned when an envelope carries no body element.
	ErrEmptyBody = errors.New("soap: empty body")
)

type envelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    body     `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

// body decodes the first child element of a SOAP body, either as a fault or
// into payload. Decoding happens on the envelope decoder so that prefixes
// declared on outer elements resolve.
type body struct {
	name    xml.Name
	fault   *Fault
	payload any
}

func (b *body) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if b.name.Local != "" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			b.name = t.Name

			switch {
			case t.Name.Space == EnvelopeNamespace && t.Name.Local == "Fault":
				b.fault = &Fault{}
				err = d.DecodeElement(b.fault, &t)
			case b.payload != nil:
				err = d.DecodeElement(b.payload, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Fault is a SOAP 1.1 fault. It is returned as an error by Unmarshal and the
// Client when the peer answered with a fault.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Actor  string `xml:"faultactor,omitempty"`
	Detail string `xml:"detail,omitempty"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}

// wireFault is the encoding form of Fault; its element names carry the
// envelope prefix literally.
type wireFault struct {
	XMLName xml.Name `xml:"soap:Fault"`
	*Fault
}

// Marshal wraps the XML encoding of payload into a SOAP envelope.
func Marshal(payload any) ([]byte, error) {
	if f, ok := payload.(*Fault); ok {
		payload = wireFault{Fault: f}
	}

	inner, err := xml.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return Wrap(inner), nil
}

// Wrap places an already encoded body element into a SOAP envelope.
func Wrap(inner []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(inner) + 160)
	buf.WriteString(xml.Header)
	buf.WriteString(`<soap:Envelope xmlns:soap="` + EnvelopeNamespace + `"><soap:Body>`)
	buf.Write(inner)
	buf.WriteString(`</soap:Body></soap:Envelope>`)
	return buf.Bytes()
}

// BodyElement returns the name of the first element in the envelope body.
func BodyElement(data []byte) (xml.Name, error) {
	env, err := decode(data, nil)
	if err != nil {
		return xml.Name{}, err
	}
	return env.Body.name, nil
}

// Unmarshal decodes the body of a SOAP envelope into v. If the body holds a
// fault, it is returned as a *Fault error. v may be nil to only check for faults.
func Unmarshal(data []byte, v any) error {
	env, err := decode(data, v)
	if err != nil {
		return err
	}
	if env.Body.fault != nil {
		return env.Body.fault
	}
	return nil
}

func decode(data []byte, v any) (*envelope, error) {
	env := &envelope{Body: body{payload: v}}
	if err := xml.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if env.Body.name.Local == "" {
		return nil, ErrEmptyBody
	}
	return env, nil
}
