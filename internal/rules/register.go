// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import "github.com/petar-djukic/doclint/pkg/types"

// RegisterDefaultRules adds the built-in rules to s.
func RegisterDefaultRules(s *Set) {
	for _, r := range defaultRules() {
		s.Register(r)
	}
}

func defaultRules() []*Rule {
	return []*Rule{
		{
			ID:          "DL1001",
			Name:        "SummaryOnSeparateLines",
			Description: "Text of multi-line <summary> and <remarks> blocks starts and ends on its own line",
			Category:    CategoryLayout,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkSeparateLines,
		},
		{
			ID:          "DL1002",
			Name:        "NoEmptyLines",
			Description: "Paragraphs are separated with <para/>, not with empty comment lines",
			Category:    CategoryLayout,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkEmptyLines,
		},
		{
			ID:          "DL1003",
			Name:        "ListItemDescription",
			Description: "Items of bullet and numbered lists hold exactly one <description>",
			Category:    CategoryLayout,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkListItems,
		},
		{
			ID:          "DL1004",
			Name:        "ListType",
			Description: "Lists declare their type",
			Category:    CategoryLayout,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkListType,
		},
		{
			ID:          "DL2001",
			Name:        "SummaryStartsWithVerb",
			Description: "Summaries start with a third-person verb instead of \"Used to\"",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2002",
			Name:        "MeaninglessTypeSummary",
			Description: "Type summaries describe what the type does, not that it is a class",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2003",
			Name:        "PropertySummary",
			Description: "Property summaries start with \"Gets\" or \"Gets or sets\" matching the accessors",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2004",
			Name:        "EventSummary",
			Description: "Event summaries start with \"Occurs when\"",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2005",
			Name:        "EnumMemberSummary",
			Description: "Enum member summaries do not restate that they are enum values",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2010",
			Name:        "BooleanParameter",
			Description: "Boolean parameters are described as \"<see langword=\"true\"/> to ...; otherwise, <see langword=\"false\"/>.\"",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2011",
			Name:        "BooleanResult",
			Description: "Boolean results are described as \"<see langword=\"true\"/> if ...; otherwise, <see langword=\"false\"/>.\"",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
		},
		{
			ID:          "DL2012",
			Name:        "DefaultValue",
			Description: "Default values are stated as \"The default is ...\" and enum defaults are linked",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkEnumDefaults,
		},
		{
			ID:          "DL2013",
			Name:        "OptionalParameterDefault",
			Description: "Optional parameters document their default value",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkOptionalDefaults,
		},
		{
			ID:          "DL2020",
			Name:        "ArgumentNullException",
			Description: "ArgumentNullException conditions name one parameter each, in signature order",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkArgumentNull,
			Canonical:   `<paramref name="{param}"/> is <see langword="null"/>.`,
		},
		{
			ID:          "DL2021",
			Name:        "ArgumentNullExceptionValueType",
			Description: "ArgumentNullException is not documented for parameters that cannot be null",
			Category:    CategoryWording,
			Severity:    types.SeverityError,
			Check:       checkNullValueType,
		},
		{
			ID:          "DL2030",
			Name:        "LangwordReference",
			Description: "Language keywords in prose are written as <see langword=\"...\"/>",
			Category:    CategoryWording,
			Severity:    types.SeverityInfo,
			Fixable:     true,
		},
		{
			ID:          "DL2040",
			Name:        "LongSentence",
			Description: "Summary sentences stay short",
			Category:    CategoryWording,
			Severity:    types.SeverityInfo,
			Check:       checkLongSentences,
		},
		{
			ID:          "DL2050",
			Name:        "ReferenceOnlySummary",
			Description: "Summaries that only refer to another member use <inheritdoc>",
			Category:    CategoryWording,
			Severity:    types.SeverityWarning,
			Fixable:     true,
			Check:       checkReferenceSummary,
		},
	}
}
