package domain

import (
	"fmt"
	"strings"
)

// Metadata keys shared by the extractor, the index payload and downstream
// consumers. Dublin Core fields carry a "dc_" prefix.
const (
	KeyBillStage     = "bill_stage"
	KeyBillType      = "bill_type"
	KeyDMSID         = "dms_id"
	KeyPublicPrivate = "public_private"

	KeyActionDate        = "action_date"
	KeyActionDesc        = "action_desc"
	KeyActionInstruction = "action_instruction"
	KeyCommitteeName     = "committee_name"
	KeyCongress          = "congress"
	KeyCosponsor         = "cosponsor"
	KeyCurrentChamber    = "current_chamber"
	KeyDistributionCode  = "distribution_code"
	KeyLegisNum          = "legis_num"
	KeyLegisType         = "legis_type"
	KeyOfficialTitle     = "official_title"
	KeySession           = "session"
	KeySponsor           = "sponsor"

	KeyDCTitle     = "dc_title"
	KeyDCPublisher = "dc_publisher"
	KeyDCDate      = "dc_date"
	KeyDCFormat    = "dc_format"
	KeyDCLanguage  = "dc_language"
	KeyDCRights    = "dc_rights"

	KeyText     = "text"
	KeySource   = "source"
	KeyFileName = "file_name"
)

// MultiValueSeparator joins repeated form elements (e.g. several cosponsors).
const MultiValueSeparator = "|"

// BillAttributes are read from the root element. Missing attributes are
// empty strings, never absent.
type BillAttributes struct {
	BillStage     string
	BillType      string
	DMSID         string
	PublicPrivate string
}

// FormInfo holds the form subtree. A nil field means the element was not
// present (or had no text) and is omitted from the metadata; an empty string
// is kept.
type FormInfo struct {
	ActionDate        *string
	ActionDesc        *string
	ActionInstruction *string
	CommitteeName     *string
	Congress          *string
	Cosponsor         *string
	CurrentChamber    *string
	DistributionCode  *string
	LegisNum          *string
	LegisType         *string
	OfficialTitle     *string
	Session           *string
	Sponsor           *string
}

// EmptyFormInfo is used when a document has no form element. The keys
// downstream consumers rely on are present with empty values.
func EmptyFormInfo() FormInfo {
	empty := func() *string { s := ""; return &s }
	return FormInfo{
		DistributionCode: empty(),
		Congress:         empty(),
		Session:          empty(),
		LegisNum:         empty(),
		CurrentChamber:   empty(),
		LegisType:        empty(),
		OfficialTitle:    empty(),
	}
}

// DublinCore holds the bibliographic metadata block.
type DublinCore struct {
	Title     string
	Publisher string
	Date      string
	Format    string
	Language  string
	Rights    string
}

// Record is everything extracted from one bill document.
type Record struct {
	Bill BillAttributes
	Form FormInfo
	DC   DublinCore

	// Text is every textual node in document order, whitespace-normalised
	// and joined by single spaces.
	Text string

	// Source is the path the record was read from.
	Source string

	// FileName is the base name of Source and the record's index id.
	FileName string
}

// ID returns the unique identifier used for the index entry.
func (r *Record) ID() string {
	return r.FileName
}

// Validate checks the record can be written to the index.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.FileName) == "" {
		return fmt.Errorf("%w: missing file name", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("%w: missing source for %s", ErrInvalidRecord, r.FileName)
	}
	return nil
}

// Metadata flattens the record into the attribute map attached to the index
// entry. Text is excluded; nil form fields are omitted.
func (r *Record) Metadata() map[string]string {
	m := map[string]string{
		KeyBillStage:     r.Bill.BillStage,
		KeyBillType:      r.Bill.BillType,
		KeyDMSID:         r.Bill.DMSID,
		KeyPublicPrivate: r.Bill.PublicPrivate,

		KeyDCTitle:     r.DC.Title,
		KeyDCPublisher: r.DC.Publisher,
		KeyDCDate:      r.DC.Date,
		KeyDCFormat:    r.DC.Format,
		KeyDCLanguage:  r.DC.Language,
		KeyDCRights:    r.DC.Rights,

		KeySource:   r.Source,
		KeyFileName: r.FileName,
	}

	for key, value := range r.Form.fields() {
		if value != nil {
			m[key] = *value
		}
	}
	return m
}

// Fields returns the full record, including text, as a flat map.
func (r *Record) Fields() map[string]string {
	m := r.Metadata()
	m[KeyText] = r.Text
	return m
}

// fields pairs each form key with its value.
func (f *FormInfo) fields() map[string]*string {
	return map[string]*string{
		KeyActionDate:        f.ActionDate,
		KeyActionDesc:        f.ActionDesc,
		KeyActionInstruction: f.ActionInstruction,
		KeyCommitteeName:     f.CommitteeName,
		KeyCongress:          f.Congress,
		KeyCosponsor:         f.Cosponsor,
		KeyCurrentChamber:    f.CurrentChamber,
		KeyDistributionCode:  f.DistributionCode,
		KeyLegisNum:          f.LegisNum,
		KeyLegisType:         f.LegisType,
		KeyOfficialTitle:     f.OfficialTitle,
		KeySession:           f.Session,
		KeySponsor:           f.Sponsor,
	}
}

// Append records a value for a normalised form key. Repeated keys are
// joined with MultiValueSeparator. Returns false for keys that are not form
// fields.
func (f *FormInfo) Append(key, value string) bool {
	field := f.field(key)
	if field == nil {
		return false
	}
	if *field == nil {
		*field = &value
		return true
	}
	joined := **field + MultiValueSeparator + value
	*field = &joined
	return true
}

// field returns the storage slot for a normalised form key.
func (f *FormInfo) field(key string) **string {
	switch key {
	case KeyActionDate:
		return &f.ActionDate
	case KeyActionDesc:
		return &f.ActionDesc
	case KeyActionInstruction:
		return &f.ActionInstruction
	case KeyCommitteeName:
		return &f.CommitteeName
	case KeyCongress:
		return &f.Congress
	case KeyCosponsor:
		return &f.Cosponsor
	case KeyCurrentChamber:
		return &f.CurrentChamber
	case KeyDistributionCode:
		return &f.DistributionCode
	case KeyLegisNum:
		return &f.LegisNum
	case KeyLegisType:
		return &f.LegisType
	case KeyOfficialTitle:
		return &f.OfficialTitle
	case KeySession:
		return &f.Session
	case KeySponsor:
		return &f.Sponsor
	default:
		return nil
	}
}

// FormKeys lists the normalised names of every form field.
func FormKeys() []string {
	return []string{
		KeyActionDate, KeyActionDesc, KeyActionInstruction, KeyCommitteeName,
		KeyCongress, KeyCosponsor, KeyCurrentChamber, KeyDistributionCode,
		KeyLegisNum, KeyLegisType, KeyOfficialTitle, KeySession, KeySponsor,
	}
}
