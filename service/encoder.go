package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"loan-risk/domain"
)

type extractor func(domain.ApplicantProfile) float64

var numericColumns = map[string]extractor{
	"Age":            func(p domain.ApplicantProfile) float64 { return float64(p.Age) },
	"Income":         func(p domain.ApplicantProfile) float64 { return p.Income },
	"LoanAmount":     func(p domain.ApplicantProfile) float64 { return p.LoanAmount },
	"CreditScore":    func(p domain.ApplicantProfile) float64 { return float64(p.CreditScore) },
	"MonthsEmployed": func(p domain.ApplicantProfile) float64 { return float64(p.MonthsEmployed) },
	"NumCreditLines": func(p domain.ApplicantProfile) float64 { return float64(p.NumCreditLines) },
	"InterestRate":   func(p domain.ApplicantProfile) float64 { return p.InterestRate },
	"LoanTerm":       func(p domain.ApplicantProfile) float64 { return float64(p.LoanTerm) },
	"DTIRatio":       func(p domain.ApplicantProfile) float64 { return p.DTIRatio },
}

// categoricalGroup describes one one-hot encoded field. The reference value
// is represented by all indicator columns of the group being zero.
type categoricalGroup struct {
	prefix    string
	field     string
	values    []string
	reference string
	value     func(domain.ApplicantProfile) string
}

var categoricalGroups = []categoricalGroup{
	{
		prefix:    "Education",
		field:     "education",
		values:    domain.EducationValues,
		reference: string(domain.EducationBachelors),
		value:     func(p domain.ApplicantProfile) string { return string(p.Education) },
	},
	{
		prefix:    "EmploymentType",
		field:     "employment_type",
		values:    domain.EmploymentTypeValues,
		reference: string(domain.EmploymentFullTime),
		value:     func(p domain.ApplicantProfile) string { return string(p.EmploymentType) },
	},
	{
		prefix:    "MaritalStatus",
		field:     "marital_status",
		values:    domain.MaritalStatusValues,
		reference: string(domain.MaritalDivorced),
		value:     func(p domain.ApplicantProfile) string { return string(p.MaritalStatus) },
	},
	{
		prefix:    "HasMortgage",
		field:     "has_mortgage",
		values:    domain.YesNoValues,
		reference: string(domain.No),
		value:     func(p domain.ApplicantProfile) string { return string(p.HasMortgage) },
	},
	{
		prefix:    "HasDependents",
		field:     "has_dependents",
		values:    domain.YesNoValues,
		reference: string(domain.No),
		value:     func(p domain.ApplicantProfile) string { return string(p.HasDependents) },
	},
	{
		prefix:    "LoanPurpose",
		field:     "loan_purpose",
		values:    domain.LoanPurposeValues,
		reference: string(domain.PurposeAuto),
		value:     func(p domain.ApplicantProfile) string { return string(p.LoanPurpose) },
	},
	{
		prefix:    "HasCoSigner",
		field:     "has_cosigner",
		values:    domain.YesNoValues,
		reference: string(domain.No),
		value:     func(p domain.ApplicantProfile) string { return string(p.HasCoSigner) },
	},
}

// FeatureEncoder maps applicant profiles onto a fixed feature schema. It is
// immutable after construction and safe for concurrent use.
type FeatureEncoder struct {
	schema  domain.FeatureSchema
	columns []extractor
}

// NewFeatureEncoder resolves every schema column up front, so a schema that
// does not match the known encoding fails here rather than at scoring time.
func NewFeatureEncoder(schema domain.FeatureSchema) (*FeatureEncoder, error) {
	if schema.Len() == 0 {
		return nil, eris.Wrap(
			domain.NewFieldError(domain.ErrSchemaMismatch, "schema", "no columns"),
			"encoder: resolve schema",
		)
	}

	columns := make([]extractor, 0, schema.Len())
	seen := make(map[string]bool, schema.Len())
	for _, name := range schema.Columns {
		if seen[name] {
			return nil, eris.Wrap(
				domain.NewFieldError(domain.ErrSchemaMismatch, name, "duplicate column"),
				"encoder: resolve schema",
			)
		}
		seen[name] = true

		extract, err := resolveColumn(name)
		if err != nil {
			return nil, eris.Wrapf(err, "encoder: resolve schema %s", schema.Version)
		}
		columns = append(columns, extract)
	}

	return &FeatureEncoder{
		schema: domain.FeatureSchema{
			Version: schema.Version,
			Columns: slices.Clone(schema.Columns),
		},
		columns: columns,
	}, nil
}

func resolveColumn(name string) (extractor, error) {
	if extract, ok := numericColumns[name]; ok {
		return extract, nil
	}

	prefix, category, ok := strings.Cut(name, "_")
	if ok {
		for _, g := range categoricalGroups {
			if g.prefix != prefix {
				continue
			}
			if category == g.reference {
				return nil, domain.NewFieldError(domain.ErrSchemaMismatch, name,
					fmt.Sprintf("%q is the reference category of %s", category, g.prefix))
			}
			if !slices.Contains(g.values, category) {
				return nil, domain.NewFieldError(domain.ErrSchemaMismatch, name,
					fmt.Sprintf("unknown %s category %q", g.prefix, category))
			}
			return func(p domain.ApplicantProfile) float64 {
				if g.value(p) == category {
					return 1
				}
				return 0
			}, nil
		}
	}

	return nil, domain.NewFieldError(domain.ErrSchemaMismatch, name, "unknown column")
}

// Schema returns a copy of the schema the encoder produces.
func (e *FeatureEncoder) Schema() domain.FeatureSchema {
	return domain.FeatureSchema{
		Version: e.schema.Version,
		Columns: slices.Clone(e.schema.Columns),
	}
}

// Encode produces the feature vector for p. Every categorical field must hold
// a value from its domain, including fields the schema has no column for.
func (e *FeatureEncoder) Encode(p domain.ApplicantProfile) (domain.FeatureVector, error) {
	for _, g := range categoricalGroups {
		if v := g.value(p); !slices.Contains(g.values, v) {
			return domain.FeatureVector{}, domain.NewFieldError(domain.ErrSchemaMismatch, g.field,
				fmt.Sprintf("value %q is not one of %s", v, strings.Join(g.values, ", ")))
		}
	}

	values := make([]float64, len(e.columns))
	for i, extract := range e.columns {
		values[i] = extract(p)
	}
	return domain.NewFeatureVector(e.schema, values), nil
}
