package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"loan-risk/domain"
	"loan-risk/render"
)

var (
	assessProfilePath string
	assessFormat      string
	assessOutput      string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess one applicant profile from a JSON or YAML file",
	Example: `  loan-risk assess --profile applicant.json
  loan-risk assess --profile applicant.yaml --format xlsx --out report.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(assessProfilePath)
		if err != nil {
			return err
		}

		a, err := newApp(cfg, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.assessments.Assess(profile)
		if err != nil {
			kind := domain.KindOf(err)
			if field := domain.FieldOf(err); field != "" {
				return fmt.Errorf("%s (field %s): %w", kind, field, err)
			}
			return fmt.Errorf("%s: %w", kind, err)
		}

		if assessOutput != "" {
			return writeReportFile(assessOutput, assessFormat, report)
		}
		return writeReport(cmd.OutOrStdout(), assessFormat, report)
	},
}

func writeReport(w io.Writer, format string, report domain.Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderer, err := render.ForFormat(format)
	if err != nil {
		return err
	}
	return renderer.Render(w, report)
}

// writeReportFile reports a failed close, which is where a full disk shows up.
func writeReportFile(path, format string, report domain.Report) (err error) {
	if format != "json" {
		if _, err := render.ForFormat(format); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "assess: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrapf(cerr, "assess: close %s", path)
		}
	}()

	return writeReport(f, format, report)
}

func init() {
	assessCmd.Flags().StringVar(&assessProfilePath, "profile", "", "applicant profile file (.json, .yaml)")
	assessCmd.Flags().StringVar(&assessFormat, "format", "text", "output format: text, json or xlsx")
	assessCmd.Flags().StringVar(&assessOutput, "out", "", "write the report to this file instead of stdout")
	_ = assessCmd.MarkFlagRequired("profile")
}

func readProfile(path string) (domain.ApplicantProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ApplicantProfile{}, eris.Wrapf(err, "assess: read %s", path)
	}

	var profile domain.ApplicantProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json.Unmarshal(data, &profile)
	}
	if err != nil {
		return domain.ApplicantProfile{}, eris.Wrapf(err, "assess: decode %s", path)
	}
	return profile, nil
}
