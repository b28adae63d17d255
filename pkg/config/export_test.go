package config

var ExtractThemeWithRegex = extractThemeWithRegex
