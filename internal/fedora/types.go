package fedora

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// ChecksumType enumerates the checksum algorithms Fedora 3.x supports for
// datastream fixity, plus the two non-algorithm sentinels.
type ChecksumType string

const (
	// ChecksumTypeDefault tells Fedora to use its configured default
	// algorithm when (re)computing a checksum.
	ChecksumTypeDefault ChecksumType = "DEFAULT"
	// ChecksumTypeDisabled marks a datastream with fixity tracking turned off.
	ChecksumTypeDisabled ChecksumType = "DISABLED"

	ChecksumTypeMD5    ChecksumType = "MD5"
	ChecksumTypeSHA1   ChecksumType = "SHA-1"
	ChecksumTypeSHA256 ChecksumType = "SHA-256"
	ChecksumTypeSHA384 ChecksumType = "SHA-384"
	ChecksumTypeSHA512 ChecksumType = "SHA-512"
)

// ChecksumNone is the checksum value Fedora reports when no checksum has
// been recorded for a datastream version.
const ChecksumNone = "none"

// ParseChecksumType maps user input to a ChecksumType, accepting the
// common unhyphenated spellings (sha256 etc.).
func ParseChecksumType(s string) (ChecksumType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DEFAULT":
		return ChecksumTypeDefault, nil
	case "DISABLED":
		return ChecksumTypeDisabled, nil
	case "MD5":
		return ChecksumTypeMD5, nil
	case "SHA-1", "SHA1":
		return ChecksumTypeSHA1, nil
	case "SHA-256", "SHA256":
		return ChecksumTypeSHA256, nil
	case "SHA-384", "SHA384":
		return ChecksumTypeSHA384, nil
	case "SHA-512", "SHA512":
		return ChecksumTypeSHA512, nil
	default:
		return "", fmt.Errorf("unknown checksum type %q", s)
	}
}

// fedoraTimeFormat is the millisecond UTC format Fedora uses for
// datastream timestamps and asOfDateTime query parameters.
const fedoraTimeFormat = "2006-01-02T15:04:05.000Z"

// Time wraps time.Time so datastream profile timestamps round-trip in
// Fedora's millisecond UTC format.
type Time struct {
	time.Time
}

// FormatTime renders a timestamp the way Fedora expects it on the wire.
func FormatTime(t time.Time) string {
	return t.UTC().Format(fedoraTimeFormat)
}

func (t Time) String() string {
	return FormatTime(t.Time)
}

// UnmarshalXML parses a dsCreateDate element. Fedora emits RFC 3339 with
// millisecond precision, but older versions omit the fraction.
func (t *Time) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse fedora timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// Datastream is one version snapshot of a datastream profile as returned
// by the REST API (element datastreamProfile).
type Datastream struct {
	XMLName      xml.Name     `xml:"datastreamProfile"`
	PID          string       `xml:"pid,attr"`
	ID           string       `xml:"dsID,attr"`
	Label        string       `xml:"dsLabel"`
	VersionID    string       `xml:"dsVersionID"`
	CreatedAt    Time         `xml:"dsCreateDate"`
	State        string       `xml:"dsState"`
	MIMEType     string       `xml:"dsMIME"`
	Size         int64        `xml:"dsSize"`
	Versionable  bool         `xml:"dsVersionable"`
	ChecksumType ChecksumType `xml:"dsChecksumType"`
	Checksum     string       `xml:"dsChecksum"`

	// ChecksumValid is only present when the profile was requested with
	// validateChecksum=true.
	ChecksumValid *bool `xml:"dsChecksumValid"`
}

// HasChecksum reports whether fixity information is recorded for this
// version. A DISABLED type or a "none" value both mean no checksum.
func (d *Datastream) HasChecksum() bool {
	return d.ChecksumType != ChecksumTypeDisabled && d.Checksum != ChecksumNone
}

// datastreamHistory is the response of GET .../datastreams/{dsID}/history,
// one datastreamProfile per version, newest first.
type datastreamHistory struct {
	XMLName  xml.Name     `xml:"datastreamHistory"`
	Versions []Datastream `xml:"datastreamProfile"`
}

// objectDatastreams is the response of GET objects/{pid}/datastreams.
type objectDatastreams struct {
	XMLName     xml.Name `xml:"objectDatastreams"`
	Datastreams []struct {
		DSID     string `xml:"dsid,attr"`
		Label    string `xml:"label,attr"`
		MIMEType string `xml:"mimeType,attr"`
	} `xml:"datastream"`
}

// objectProfile is the response of GET objects/{pid}. Only the fields the
// auditor looks at are mapped.
type objectProfile struct {
	XMLName xml.Name `xml:"objectProfile"`
	PID     string   `xml:"pid,attr"`
	Label   string   `xml:"objLabel"`
	State   string   `xml:"objState"`
}
