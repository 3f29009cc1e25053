package soap

import (
	"net/http"
	"strings"
)

// WriteResponse writes payload as a SOAP envelope with status 200.
func WriteResponse(w http.ResponseWriter, payload any) error {
	data, err := Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}

// WriteFault writes f with status 500, as SOAP 1.1 requires for faults.
func WriteFault(w http.ResponseWriter, f *Fault) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusInternalServerError)
	_, err = w.Write(data)
	return err
}

// Action returns the unquoted SOAPAction header of r.
func Action(r *http.Request) string {
	return strings.Trim(r.Header.Get("SOAPAction"), `"`)
}
