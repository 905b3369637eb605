package domain

// Education is the applicant's highest completed education level.
type Education string

const (
	EducationBachelors  Education = "Bachelor's"
	EducationHighSchool Education = "High School"
	EducationMasters    Education = "Master's"
	EducationPhD        Education = "PhD"
)

// EmploymentType describes how the applicant is currently employed.
type EmploymentType string

const (
	EmploymentFullTime     EmploymentType = "Full-time"
	EmploymentPartTime     EmploymentType = "Part-time"
	EmploymentSelfEmployed EmploymentType = "Self-employed"
	EmploymentUnemployed   EmploymentType = "Unemployed"
)

type MaritalStatus string

const (
	MaritalDivorced MaritalStatus = "Divorced"
	MaritalMarried  MaritalStatus = "Married"
	MaritalSingle   MaritalStatus = "Single"
)

// YesNo is used by the boolean-like categorical fields (mortgage,
// dependents, co-signer). The trained model saw them as categories, not
// booleans, so they stay categorical here.
type YesNo string

const (
	No  YesNo = "No"
	Yes YesNo = "Yes"
)

type LoanPurpose string

const (
	PurposeAuto      LoanPurpose = "Auto"
	PurposeBusiness  LoanPurpose = "Business"
	PurposeEducation LoanPurpose = "Education"
	PurposeHome      LoanPurpose = "Home"
	PurposeOther     LoanPurpose = "Other"
)

var (
	EducationValues      = []string{string(EducationBachelors), string(EducationHighSchool), string(EducationMasters), string(EducationPhD)}
	EmploymentTypeValues = []string{string(EmploymentFullTime), string(EmploymentPartTime), string(EmploymentSelfEmployed), string(EmploymentUnemployed)}
	MaritalStatusValues  = []string{string(MaritalDivorced), string(MaritalMarried), string(MaritalSingle)}
	YesNoValues          = []string{string(No), string(Yes)}
	LoanPurposeValues    = []string{string(PurposeAuto), string(PurposeBusiness), string(PurposeEducation), string(PurposeHome), string(PurposeOther)}
)

// ApplicantProfile is the full set of raw attributes describing one applicant
// and the loan they request. It is passed by value and never mutated.
//
// Reference is an optional operator-supplied label for the case. It is
// carried into the report but never encoded for the model.
type ApplicantProfile struct {
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`

	Age            int     `json:"age" yaml:"age"`
	Income         float64 `json:"income" yaml:"income"`
	LoanAmount     float64 `json:"loan_amount" yaml:"loan_amount"`
	CreditScore    int     `json:"credit_score" yaml:"credit_score"`
	MonthsEmployed int     `json:"months_employed" yaml:"months_employed"`
	NumCreditLines int     `json:"num_credit_lines" yaml:"num_credit_lines"`
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"`
	LoanTerm       int     `json:"loan_term" yaml:"loan_term"`
	DTIRatio       float64 `json:"dti_ratio" yaml:"dti_ratio"`

	Education      Education      `json:"education" yaml:"education"`
	EmploymentType EmploymentType `json:"employment_type" yaml:"employment_type"`
	MaritalStatus  MaritalStatus  `json:"marital_status" yaml:"marital_status"`
	HasMortgage    YesNo          `json:"has_mortgage" yaml:"has_mortgage"`
	HasDependents  YesNo          `json:"has_dependents" yaml:"has_dependents"`
	LoanPurpose    LoanPurpose    `json:"loan_purpose" yaml:"loan_purpose"`
	HasCoSigner    YesNo          `json:"has_cosigner" yaml:"has_cosigner"`
}

// LoanInput is the loan-term subset of a profile.
func (p ApplicantProfile) LoanInput() LoanInput {
	return LoanInput{
		Amount:       p.LoanAmount,
		InterestRate: p.InterestRate,
		TermMonths:   p.LoanTerm,
	}
}

// DefaultProfile mirrors the defaults offered by the input surface.
func DefaultProfile() ApplicantProfile {
	return ApplicantProfile{
		Age:            30,
		Income:         50000,
		LoanAmount:     10000,
		CreditScore:    600,
		MonthsEmployed: 24,
		NumCreditLines: 3,
		InterestRate:   10,
		LoanTerm:       36,
		DTIRatio:       0.3,
		Education:      EducationHighSchool,
		EmploymentType: EmploymentFullTime,
		MaritalStatus:  MaritalSingle,
		HasMortgage:    No,
		HasDependents:  No,
		LoanPurpose:    PurposeBusiness,
		HasCoSigner:    No,
	}
}
