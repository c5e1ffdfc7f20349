package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/catalog"
	"compass/internal/engine"
	"compass/internal/management"
)

const (
	managementServiceURL = "http://localhost:8084"
)

func TestManagementServiceHealth(t *testing.T) {
	url := fmt.Sprintf("%s/health", managementServiceURL)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)
	assert.NotNil(t, health["status"])
}

func TestProfileRulesCRUD(t *testing.T) {
	createReq := management.CreateProfileRuleRequest{
		Name:      "e2e_salary_rule",
		EventType: "SALARY_CREDIT",
		Status:    stringPtr("ACTIVE"),
		Priority:  10,
		Conditions: []engine.Condition{
			{Source: "event.amount", Op: engine.OpGreaterEqual, Value: engine.NumberValue(50000)},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectScoreDelta, Score: "financialStability", Delta: 10},
		},
	}

	ruleID := createProfileRule(t, createReq)
	defer deleteProfileRule(t, ruleID)

	rule := getProfileRule(t, ruleID)
	assert.Equal(t, createReq.Name, rule.Name)
	assert.Equal(t, engine.EventSalaryCredit, rule.EventType)
	assert.Equal(t, engine.StatusActive, rule.Status)
	assert.Equal(t, createReq.Priority, rule.Priority)

	rules := listProfileRules(t)
	assert.GreaterOrEqual(t, len(rules), 1)
	found := false
	for _, r := range rules {
		if r.ID == ruleID {
			found = true
			break
		}
	}
	assert.True(t, found, "created rule should be in the list")

	updateReq := management.UpdateProfileRuleRequest{
		Name:     stringPtr("e2e_salary_rule_v2"),
		Status:   stringPtr("INACTIVE"),
		Priority: intPtr(20),
	}
	updatedRule := updateProfileRule(t, ruleID, updateReq)
	assert.Equal(t, *updateReq.Name, updatedRule.Name)
	assert.Equal(t, engine.StatusInactive, updatedRule.Status)
	assert.Equal(t, *updateReq.Priority, updatedRule.Priority)

	versions := getRuleVersions(t, ruleID)
	assert.GreaterOrEqual(t, len(versions), 1)

	auditLogs := getRuleAuditLogs(t, ruleID)
	assert.GreaterOrEqual(t, len(auditLogs), 0)
}

func TestProductsCRUD(t *testing.T) {
	createReq := management.CreateProductRequest{
		Name:           "e2e_premium_card",
		RequiredScores: map[string]float64{"financialStability": 60},
		WeightByScore:  map[string]float64{"financialStability": 0.5},
		Exclusions:     []string{"defaulted"},
		Audience:       `scores["financialStability"] > 50.0`,
	}

	productID := createProduct(t, createReq)
	defer deleteProduct(t, productID)

	product := getProduct(t, productID)
	assert.Equal(t, createReq.Name, product.Name)
	assert.Equal(t, createReq.RequiredScores, product.RequiredScores)
	assert.True(t, product.Active)

	products := listProducts(t)
	assert.GreaterOrEqual(t, len(products), 1)

	updateReq := management.UpdateProductRequest{
		Name:   stringPtr("e2e_premium_card_v2"),
		Active: boolPtr(false),
	}
	updated := updateProduct(t, productID, updateReq)
	assert.Equal(t, *updateReq.Name, updated.Name)
	assert.False(t, updated.Active)
}

func TestSimulation(t *testing.T) {
	createReq := management.CreateProfileRuleRequest{
		Name:      "e2e_sim_rule",
		EventType: "SALARY_CREDIT",
		Status:    stringPtr("ACTIVE"),
		Priority:  10,
		Conditions: []engine.Condition{
			{Source: "event.amount", Op: engine.OpGreaterEqual, Value: engine.NumberValue(50000)},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectScoreDelta, Score: "financialStability", Delta: 10},
			{Type: engine.EffectAddTag, Tag: "stable-income"},
		},
	}
	ruleID := createProfileRule(t, createReq)
	defer deleteProfileRule(t, ruleID)

	simReq := management.SimulationRequest{
		Profile: management.SimulationProfile{
			CustomerID: "e2e-sim-customer",
			Scores:     map[string]float64{"financialStability": 52},
		},
		Events: []engine.Event{
			{Type: engine.EventSalaryCredit, Payload: map[string]interface{}{"amount": 80000.0}},
		},
	}

	body, err := json.Marshal(simReq)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/simulate", managementServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var simResp management.SimulationResponse
	err = json.NewDecoder(resp.Body).Decode(&simResp)
	require.NoError(t, err)

	assert.Equal(t, 62.0, simResp.Profile.Scores["financialStability"])
	assert.Contains(t, simResp.Profile.Tags, "stable-income")
	assert.GreaterOrEqual(t, len(simResp.Trace), 1)
	assert.NotEmpty(t, simResp.Narrative)
}

func TestAuditLogs(t *testing.T) {
	createReq := management.CreateProfileRuleRequest{
		Name:      "e2e_audit_rule",
		EventType: "LOGIN",
		Status:    stringPtr("ACTIVE"),
		Priority:  10,
		Conditions: []engine.Condition{
			{Source: "event.channel", Op: engine.OpEqual, Value: engine.StringValue("mobile")},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectScoreDelta, Score: "engagement", Delta: 1},
		},
	}
	ruleID := createProfileRule(t, createReq)
	defer deleteProfileRule(t, ruleID)

	updateReq := management.UpdateProfileRuleRequest{
		Name: stringPtr("e2e_audit_rule_v2"),
	}
	_ = updateProfileRule(t, ruleID, updateReq)

	time.Sleep(1 * time.Second)

	auditLogs := getRuleAuditLogs(t, ruleID)
	assert.GreaterOrEqual(t, len(auditLogs), 1)

	allLogs := getAllAuditLogs(t)
	assert.GreaterOrEqual(t, len(allLogs), 1)

	filteredLogs := getAllAuditLogsWithFilter(t, "", "profile")
	assert.GreaterOrEqual(t, len(filteredLogs), 1)
}

func TestValidationErrors(t *testing.T) {
	invalidRule := management.CreateProfileRuleRequest{
		Name:      "e2e_invalid_rule",
		EventType: "NOT_AN_EVENT",
		Conditions: []engine.Condition{
			{Source: "event.amount", Op: engine.OpGreater, Value: engine.NumberValue(1)},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectAddTag, Tag: "x"},
		},
	}
	resp := createProfileRuleWithError(t, invalidRule)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	invalidProduct := management.CreateProductRequest{
		Name:     "e2e_invalid_product",
		Audience: `scores[`,
	}
	resp = createProductWithError(t, invalidProduct)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func createProfileRule(t *testing.T, req management.CreateProfileRuleRequest) string {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/rules", managementServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rule management.ProfileRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule.ID
}

func createProfileRuleWithError(t *testing.T, req management.CreateProfileRuleRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/rules", managementServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	resp.Body.Close()

	return resp
}

func getProfileRule(t *testing.T, id string) management.ProfileRule {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/%s", managementServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rule management.ProfileRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule
}

func listProfileRules(t *testing.T) []management.ProfileRule {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules", managementServiceURL))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rules []management.ProfileRule
	err = json.NewDecoder(resp.Body).Decode(&rules)
	require.NoError(t, err)

	return rules
}

func updateProfileRule(t *testing.T, id string, req management.UpdateProfileRuleRequest) management.ProfileRule {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(
		"PUT",
		fmt.Sprintf("%s/api/v1/rules/%s", managementServiceURL, id),
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rule management.ProfileRule
	err = json.NewDecoder(resp.Body).Decode(&rule)
	require.NoError(t, err)

	return rule
}

func deleteProfileRule(t *testing.T, id string) {
	t.Helper()

	httpReq, err := http.NewRequest(
		"DELETE",
		fmt.Sprintf("%s/api/v1/rules/%s", managementServiceURL, id),
		nil,
	)
	require.NoError(t, err)

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func getRuleVersions(t *testing.T, id string) []management.RuleVersion {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/%s/versions", managementServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var versions []management.RuleVersion
	err = json.NewDecoder(resp.Body).Decode(&versions)
	require.NoError(t, err)

	return versions
}

func getRuleAuditLogs(t *testing.T, id string) []management.AuditLog {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/rules/%s/audit", managementServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []management.AuditLog
	err = json.NewDecoder(resp.Body).Decode(&logs)
	require.NoError(t, err)

	return logs
}

func getAllAuditLogs(t *testing.T) []management.AuditLog {
	t.Helper()
	return getAllAuditLogsWithFilter(t, "", "")
}

func getAllAuditLogsWithFilter(t *testing.T, ruleID, ruleType string) []management.AuditLog {
	t.Helper()

	url := fmt.Sprintf("%s/api/v1/audit/logs", managementServiceURL)
	if ruleID != "" {
		url += fmt.Sprintf("?rule_id=%s", ruleID)
	}
	if ruleType != "" {
		if strings.Contains(url, "?") {
			url += "&"
		} else {
			url += "?"
		}
		url += fmt.Sprintf("rule_type=%s", ruleType)
	}

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []management.AuditLog
	err = json.NewDecoder(resp.Body).Decode(&logs)
	require.NoError(t, err)

	return logs
}

func createProduct(t *testing.T, req management.CreateProductRequest) string {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/products", managementServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product catalog.Product
	err = json.NewDecoder(resp.Body).Decode(&product)
	require.NoError(t, err)

	return product.ID
}

func createProductWithError(t *testing.T, req management.CreateProductRequest) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/products", managementServiceURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	resp.Body.Close()

	return resp
}

func getProduct(t *testing.T, id string) catalog.Product {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/products/%s", managementServiceURL, id))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product catalog.Product
	err = json.NewDecoder(resp.Body).Decode(&product)
	require.NoError(t, err)

	return product
}

func listProducts(t *testing.T) []catalog.Product {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/products", managementServiceURL))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []catalog.Product
	err = json.NewDecoder(resp.Body).Decode(&products)
	require.NoError(t, err)

	return products
}

func updateProduct(t *testing.T, id string, req management.UpdateProductRequest) catalog.Product {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(
		"PUT",
		fmt.Sprintf("%s/api/v1/products/%s", managementServiceURL, id),
		bytes.NewBuffer(body),
	)
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product catalog.Product
	err = json.NewDecoder(resp.Body).Decode(&product)
	require.NoError(t, err)

	return product
}

func deleteProduct(t *testing.T, id string) {
	t.Helper()

	httpReq, err := http.NewRequest(
		"DELETE",
		fmt.Sprintf("%s/api/v1/products/%s", managementServiceURL, id),
		nil,
	)
	require.NoError(t, err)

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
func boolPtr(b bool) *bool       { return &b }
