package models

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventSamplePickupRequested          EventType = "SamplePickupRequested"
	EventSubjectSubmitted               EventType = "SubjectSubmitted"
	EventCegatSampleRegistrationRequest EventType = "CegatSampleRegistrationRequest"
	EventSampleBillingChanged           EventType = "SampleBillingChanged"
	EventSamplingMethodChanged          EventType = "SamplingMethodChanged"
	EventSamplePurposeChanged           EventType = "SamplePurposeChanged"
	EventSampleTestTypeChanged          EventType = "SampleTestTypeChanged"
	EventSampleWetLabChanged            EventType = "SampleWetLabChanged"
)

var eventTypeLabels = map[EventType]string{
	EventSamplePickupRequested:          "Sample Pickup Requested",
	EventSubjectSubmitted:               "Subject Submitted",
	EventCegatSampleRegistrationRequest: "Cegat Sample Registration Request",
	EventSampleBillingChanged:           "Sample Billing Changed",
	EventSamplingMethodChanged:          "Sampling Method Changed",
	EventSamplePurposeChanged:           "Sample Purpose Changed",
	EventSampleTestTypeChanged:          "Sample Test Type Changed",
	EventSampleWetLabChanged:            "Sample Wet Lab Changed",
}

func EventTypeValues() []EventType {
	return []EventType{
		EventSamplePickupRequested,
		EventSubjectSubmitted,
		EventCegatSampleRegistrationRequest,
		EventSampleBillingChanged,
		EventSamplingMethodChanged,
		EventSamplePurposeChanged,
		EventSampleTestTypeChanged,
		EventSampleWetLabChanged,
	}
}

func (t EventType) Valid() bool {
	_, ok := eventTypeLabels[t]
	return ok
}

func (t EventType) Label() string { return eventTypeLabels[t] }

type SubjectStatus string

const (
	SubjectDraft     SubjectStatus = "Draft"
	SubjectDeclared  SubjectStatus = "Declared"
	SubjectSubmitted SubjectStatus = "Submitted"
)

var subjectStatusLabels = map[SubjectStatus]string{
	SubjectDraft:     "Draft",
	SubjectDeclared:  "Declared",
	SubjectSubmitted: "Submitted",
}

func SubjectStatusValues() []SubjectStatus {
	return []SubjectStatus{SubjectDraft, SubjectDeclared, SubjectSubmitted}
}

func (s SubjectStatus) Valid() bool {
	_, ok := subjectStatusLabels[s]
	return ok
}

func (s SubjectStatus) Label() string { return subjectStatusLabels[s] }

// Next returns the status that follows s. Submitted is terminal.
func (s SubjectStatus) Next() (SubjectStatus, bool) {
	switch s {
	case SubjectDraft:
		return SubjectDeclared, true
	case SubjectDeclared:
		return SubjectSubmitted, true
	}
	return s, false
}

type WizardStep string

const (
	StepPersonalInfo  WizardStep = "PersonalInfo"
	StepFamilyHistory WizardStep = "FamilyHistory"
	StepClinicalInfo  WizardStep = "ClinicalInfo"
	StepPhysicalInfo  WizardStep = "PhysicalInfo"
	StepSummary       WizardStep = "Summary"
	StepCompleted     WizardStep = "Completed"
)

var wizardStepOrder = []WizardStep{
	StepPersonalInfo,
	StepFamilyHistory,
	StepClinicalInfo,
	StepPhysicalInfo,
	StepSummary,
	StepCompleted,
}

var wizardStepLabels = map[WizardStep]string{
	StepPersonalInfo:  "Personal Info",
	StepFamilyHistory: "Family History",
	StepClinicalInfo:  "Clinical Info",
	StepPhysicalInfo:  "Physical Info",
	StepSummary:       "Summary",
	StepCompleted:     "Completed",
}

func WizardStepValues() []WizardStep {
	out := make([]WizardStep, len(wizardStepOrder))
	copy(out, wizardStepOrder)
	return out
}

func (w WizardStep) Valid() bool {
	_, ok := wizardStepLabels[w]
	return ok
}

func (w WizardStep) Label() string { return wizardStepLabels[w] }

// Next returns the step after w. Completed is terminal.
func (w WizardStep) Next() (WizardStep, bool) {
	for i, step := range wizardStepOrder {
		if step == w && i+1 < len(wizardStepOrder) {
			return wizardStepOrder[i+1], true
		}
	}
	return w, false
}

type TestType string

const (
	TestWholeGenomeSequencing TestType = "WholeGenomeSequencing"
	TestWholeExomeSequencing  TestType = "WholeExomeSequencing"
	TestSangerOnHold          TestType = "SangerOnHold"
)

var testTypeLabels = map[TestType]string{
	TestWholeGenomeSequencing: "Whole Genome Sequencing",
	TestWholeExomeSequencing:  "Whole Exome Sequencing",
	TestSangerOnHold:          "Sanger On Hold",
}

func TestTypeValues() []TestType {
	return []TestType{TestWholeGenomeSequencing, TestWholeExomeSequencing, TestSangerOnHold}
}

func (t TestType) Valid() bool {
	_, ok := testTypeLabels[t]
	return ok
}

func (t TestType) Label() string { return testTypeLabels[t] }

type ProductType string

const (
	ProductMyLifeHeart      ProductType = "myLifeHeart"
	ProductMyLifeGenome     ProductType = "myLifeGenome"
	ProductMyLifeCancer     ProductType = "myLifeCancer"
	ProductMyLifeExome      ProductType = "myLifeExome"
	ProductSangerSequencing ProductType = "sangerSequencing"
	ProductSangerOnHold     ProductType = "sangerOnHold"
	ProductResearchWES      ProductType = "researchWES"
	ProductResearchWGS      ProductType = "researchWGS"
)

var productTypeLabels = map[ProductType]string{
	ProductMyLifeHeart:      "My Life Heart",
	ProductMyLifeGenome:     "My Life Genome",
	ProductMyLifeCancer:     "My Life Cancer",
	ProductMyLifeExome:      "My Life Exome",
	ProductSangerSequencing: "Sanger Sequencing",
	ProductSangerOnHold:     "Sanger On Hold",
	ProductResearchWES:      "Research WES",
	ProductResearchWGS:      "Research WGS",
}

func ProductTypeValues() []ProductType {
	return []ProductType{
		ProductMyLifeHeart,
		ProductMyLifeGenome,
		ProductMyLifeCancer,
		ProductMyLifeExome,
		ProductSangerSequencing,
		ProductSangerOnHold,
		ProductResearchWES,
		ProductResearchWGS,
	}
}

func (p ProductType) Valid() bool {
	_, ok := productTypeLabels[p]
	return ok
}

func (p ProductType) Label() string { return productTypeLabels[p] }

type ReportType string

const (
	ReportDiagnostics      ReportType = "Diagnostics"
	ReportUpdate           ReportType = "Update"
	ReportCorrection       ReportType = "Correction"
	ReportFailedAnalysis   ReportType = "FailedAnalysis"
	ReportNegativeFollowUp ReportType = "NegativeFollowUp"
	ReportRawData          ReportType = "RawData"
	ReportDataAnalysis     ReportType = "DataAnalysis"
	ReportResearch         ReportType = "Research"
)

var reportTypeLabels = map[ReportType]string{
	ReportDiagnostics:      "Diagnostics",
	ReportUpdate:           "Update",
	ReportCorrection:       "Correction",
	ReportFailedAnalysis:   "Failed Analysis",
	ReportNegativeFollowUp: "Negative Follow Up",
	ReportRawData:          "Raw Data",
	ReportDataAnalysis:     "Data Analysis",
	ReportResearch:         "Research",
}

func ReportTypeValues() []ReportType {
	return []ReportType{
		ReportDiagnostics,
		ReportUpdate,
		ReportCorrection,
		ReportFailedAnalysis,
		ReportNegativeFollowUp,
		ReportRawData,
		ReportDataAnalysis,
		ReportResearch,
	}
}

func (r ReportType) Valid() bool {
	_, ok := reportTypeLabels[r]
	return ok
}

func (r ReportType) Label() string { return reportTypeLabels[r] }

type FileType string

const (
	FilePDF  FileType = "PDF"
	FileJSON FileType = "JSON"
)

var fileTypeLabels = map[FileType]string{
	FilePDF:  "PDF",
	FileJSON: "JSON",
}

func FileTypeValues() []FileType { return []FileType{FilePDF, FileJSON} }

func (f FileType) Valid() bool {
	_, ok := fileTypeLabels[f]
	return ok
}

func (f FileType) Label() string { return fileTypeLabels[f] }

// ContentType is the MIME type stored alongside the report document.
func (f FileType) ContentType() string {
	if f == FileJSON {
		return "application/json"
	}
	return "application/pdf"
}

type AccessType string

const (
	AccessRead      AccessType = "Read"
	AccessReadWrite AccessType = "ReadWrite"
)

var accessTypeLabels = map[AccessType]string{
	AccessRead:      "Read",
	AccessReadWrite: "Read & Write",
}

func AccessTypeValues() []AccessType { return []AccessType{AccessRead, AccessReadWrite} }

func (a AccessType) Valid() bool {
	_, ok := accessTypeLabels[a]
	return ok
}

func (a AccessType) Label() string { return accessTypeLabels[a] }

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "Initiated"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentOK        PaymentStatus = "OK"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentInitiated: "Initiated",
	PaymentFailed:    "Failed",
	PaymentOK:        "OK",
}

func PaymentStatusValues() []PaymentStatus {
	return []PaymentStatus{PaymentInitiated, PaymentFailed, PaymentOK}
}

func (p PaymentStatus) Valid() bool {
	_, ok := paymentStatusLabels[p]
	return ok
}

func (p PaymentStatus) Label() string { return paymentStatusLabels[p] }

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

var currencyLabels = map[Currency]string{
	CurrencyEUR: "Euro",
	CurrencyUSD: "US Dollar",
}

func CurrencyValues() []Currency { return []Currency{CurrencyEUR, CurrencyUSD} }

func (c Currency) Valid() bool {
	_, ok := currencyLabels[c]
	return ok
}

func (c Currency) Label() string { return currencyLabels[c] }

// EnumError reports a value outside the declared set of an enumerated field.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

type validEnum interface {
	~string
	Valid() bool
}

// CheckEnum returns an *EnumError when value is not declared for field.
func CheckEnum[T validEnum](field string, value T) error {
	if !value.Valid() {
		return &EnumError{Field: field, Value: string(value)}
	}
	return nil
}

// CheckOptionalEnum accepts nil, otherwise behaves like CheckEnum.
func CheckOptionalEnum[T validEnum](field string, value *T) error {
	if value == nil {
		return nil
	}
	return CheckEnum(field, *value)
}

func parseEnum[T validEnum](field, raw string) (T, error) {
	value := T(strings.TrimSpace(raw))
	if !value.Valid() {
		var zero T
		return zero, &EnumError{Field: field, Value: raw}
	}
	return value, nil
}

func ParseEventType(raw string) (EventType, error) { return parseEnum[EventType]("event type", raw) }

func ParseSubjectStatus(raw string) (SubjectStatus, error) {
	return parseEnum[SubjectStatus]("subject status", raw)
}

func ParseWizardStep(raw string) (WizardStep, error) { return parseEnum[WizardStep]("wizard step", raw) }

func ParseTestType(raw string) (TestType, error) { return parseEnum[TestType]("test type", raw) }

func ParseProductType(raw string) (ProductType, error) {
	return parseEnum[ProductType]("product type", raw)
}

func ParseReportType(raw string) (ReportType, error) { return parseEnum[ReportType]("report type", raw) }

func ParseFileType(raw string) (FileType, error) { return parseEnum[FileType]("file type", raw) }

func ParseAccessType(raw string) (AccessType, error) { return parseEnum[AccessType]("access type", raw) }

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	return parseEnum[PaymentStatus]("payment status", raw)
}

func ParseCurrency(raw string) (Currency, error) { return parseEnum[Currency]("currency", raw) }

// EnumValues lists the declared values of every enumerated column, keyed by
// "<table>.<column>".
func EnumValues() map[string][]string {
	return map[string][]string{
		"events.type":                toStrings(EventTypeValues()),
		"subjects.status":            toStrings(SubjectStatusValues()),
		"subjects.wizard_step":       toStrings(WizardStepValues()),
		"samples.test_type":          toStrings(TestTypeValues()),
		"products.type":              toStrings(ProductTypeValues()),
		"reports.report_type":        toStrings(ReportTypeValues()),
		"reports.test_type":          toStrings(TestTypeValues()),
		"reports.file_type":          toStrings(FileTypeValues()),
		"subject_shares.access_type": toStrings(AccessTypeValues()),
		"payments.status":            toStrings(PaymentStatusValues()),
		"finance_settings.test_type": toStrings(TestTypeValues()),
		"finance_settings.currency":  toStrings(CurrencyValues()),
	}
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
