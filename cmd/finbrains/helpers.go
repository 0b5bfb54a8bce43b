package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/finbrains/finbrains/internal/api"
	"github.com/finbrains/finbrains/internal/common"
	"github.com/finbrains/finbrains/internal/config"
	"github.com/finbrains/finbrains/internal/insight"
)

// newBackend builds the backend client with the saved session attached.
func newBackend() (*api.Client, *api.Session, error) {
	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		return nil, nil, fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}
	sessionPath, err := config.SessionPath()
	if err != nil {
		return nil, nil, err
	}
	session, err := api.LoadSession(sessionPath)
	if err != nil {
		return nil, nil, err
	}
	return api.NewClient(baseURL, session), session, nil
}

// newInsight builds the inference client from its independently configured
// base address.
func newInsight() *insight.Client {
	return insight.NewClient(viper.GetString("insights.base_url"))
}

// currentMonth returns the current YYYY-MM key.
func currentMonth() string {
	return time.Now().Format("2006-01")
}

// monthsBefore returns the YYYY-MM key n months before month.
func monthsBefore(month string, n int) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		t = time.Now()
	}
	return t.AddDate(0, -n, 0).Format("2006-01")
}

// monthEnd returns the last day of a YYYY-MM month as YYYY-MM-DD.
func monthEnd(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month + "-31"
	}
	return t.AddDate(0, 1, -1).Format("2006-01-02")
}
