package domain

import "slices"

// FeatureSchema is an ordered, versioned list of column names. A vector is
// only meaningful together with the schema it was encoded against.
type FeatureSchema struct {
	Version string   `json:"version" yaml:"version"`
	Columns []string `json:"columns" yaml:"columns"`
}

// SchemaV1 is the column layout the production classifier was trained on.
var SchemaV1 = FeatureSchema{
	Version: "v1",
	Columns: []string{
		"Age",
		"Income",
		"LoanAmount",
		"CreditScore",
		"MonthsEmployed",
		"NumCreditLines",
		"InterestRate",
		"LoanTerm",
		"DTIRatio",
		"Education_High School",
		"Education_Master's",
		"Education_PhD",
		"EmploymentType_Part-time",
		"EmploymentType_Self-employed",
		"EmploymentType_Unemployed",
		"MaritalStatus_Married",
		"MaritalStatus_Single",
		"HasMortgage_Yes",
		"HasDependents_Yes",
		"LoanPurpose_Business",
		"LoanPurpose_Education",
		"LoanPurpose_Home",
		"LoanPurpose_Other",
		"HasCoSigner_Yes",
	},
}

func (s FeatureSchema) Len() int { return len(s.Columns) }

// FeatureVector is the numeric encoding of one profile. It cannot be modified
// after creation; accessors return copies.
type FeatureVector struct {
	version string
	columns []string
	values  []float64
}

// NewFeatureVector binds values to schema. The caller guarantees that
// len(values) == schema.Len().
func NewFeatureVector(schema FeatureSchema, values []float64) FeatureVector {
	return FeatureVector{
		version: schema.Version,
		columns: slices.Clone(schema.Columns),
		values:  slices.Clone(values),
	}
}

func (v FeatureVector) Version() string { return v.version }

func (v FeatureVector) Len() int { return len(v.values) }

func (v FeatureVector) Columns() []string { return slices.Clone(v.columns) }

func (v FeatureVector) Values() []float64 { return slices.Clone(v.values) }

// Get returns the value of the named column.
func (v FeatureVector) Get(name string) (float64, bool) {
	i := slices.Index(v.columns, name)
	if i < 0 {
		return 0, false
	}
	return v.values[i], true
}
