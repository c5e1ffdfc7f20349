package management

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compass/internal/engine"
)

func validCreateRuleRequest() CreateProfileRuleRequest {
	return CreateProfileRuleRequest{
		Name:      "salary-credit-boost",
		EventType: "SALARY_CREDIT",
		Priority:  10,
		Conditions: []engine.Condition{
			{Source: "event.amount", Op: engine.OpGreaterEqual, Value: engine.NumberValue(50000)},
		},
		Effects: []engine.Effect{
			{Type: engine.EffectScoreDelta, Score: "financialStability", Delta: 10},
		},
	}
}

func TestValidateProfileRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateProfileRuleRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(r *CreateProfileRuleRequest) {},
		},
		{
			name:    "missing name",
			mutate:  func(r *CreateProfileRuleRequest) { r.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "unknown event type",
			mutate:  func(r *CreateProfileRuleRequest) { r.EventType = "PAYDAY" },
			wantErr: "unknown event_type",
		},
		{
			name: "invalid status",
			mutate: func(r *CreateProfileRuleRequest) {
				status := "PAUSED"
				r.Status = &status
			},
			wantErr: "invalid status",
		},
		{
			name: "valid status",
			mutate: func(r *CreateProfileRuleRequest) {
				status := "ACTIVE"
				r.Status = &status
			},
		},
		{
			name:    "no conditions",
			mutate:  func(r *CreateProfileRuleRequest) { r.Conditions = nil },
			wantErr: "at least one condition is required",
		},
		{
			name: "condition without source",
			mutate: func(r *CreateProfileRuleRequest) {
				r.Conditions[0].Source = ""
			},
			wantErr: "conditions[0]: source is required",
		},
		{
			name: "condition with unknown operator",
			mutate: func(r *CreateProfileRuleRequest) {
				r.Conditions[0].Op = "~="
			},
			wantErr: "unknown operator",
		},
		{
			name:    "no effects",
			mutate:  func(r *CreateProfileRuleRequest) { r.Effects = nil },
			wantErr: "at least one effect is required",
		},
		{
			name: "unknown effect type",
			mutate: func(r *CreateProfileRuleRequest) {
				r.Effects[0].Type = "teleport"
			},
			wantErr: "unknown effect type",
		},
		{
			name: "scoreDelta without score",
			mutate: func(r *CreateProfileRuleRequest) {
				r.Effects[0].Score = ""
			},
			wantErr: "score is required for scoreDelta",
		},
		{
			name: "addTag without tag",
			mutate: func(r *CreateProfileRuleRequest) {
				r.Effects = []engine.Effect{{Type: engine.EffectAddTag}}
			},
			wantErr: "tag is required for addTag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRuleRequest()
			tt.mutate(&req)

			err := ValidateProfileRule(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdateProfileRule(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("empty update is valid", func(t *testing.T) {
		assert.NoError(t, ValidateUpdateProfileRule(UpdateProfileRuleRequest{}))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateUpdateProfileRule(UpdateProfileRuleRequest{Name: strPtr("")})
		assert.ErrorContains(t, err, "name cannot be empty")
	})

	t.Run("unknown event type rejected", func(t *testing.T) {
		err := ValidateUpdateProfileRule(UpdateProfileRuleRequest{EventType: strPtr("PAYDAY")})
		assert.ErrorContains(t, err, "unknown event_type")
	})

	t.Run("explicit empty conditions rejected", func(t *testing.T) {
		empty := []engine.Condition{}
		err := ValidateUpdateProfileRule(UpdateProfileRuleRequest{Conditions: &empty})
		assert.ErrorContains(t, err, "at least one condition is required")
	})

	t.Run("explicit empty effects rejected", func(t *testing.T) {
		empty := []engine.Effect{}
		err := ValidateUpdateProfileRule(UpdateProfileRuleRequest{Effects: &empty})
		assert.ErrorContains(t, err, "at least one effect is required")
	})

	t.Run("valid partial update", func(t *testing.T) {
		conditions := []engine.Condition{
			{Source: "profile.scores.engagement", Op: engine.OpGreater, Value: engine.NumberValue(10)},
		}
		err := ValidateUpdateProfileRule(UpdateProfileRuleRequest{
			Name:       strPtr("renamed"),
			Conditions: &conditions,
		})
		assert.NoError(t, err)
	})
}

func TestValidateProduct(t *testing.T) {
	t.Run("valid without audience", func(t *testing.T) {
		err := ValidateProduct(CreateProductRequest{Name: "Premium Card"})
		assert.NoError(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		err := ValidateProduct(CreateProductRequest{})
		assert.ErrorContains(t, err, "name is required")
	})

	t.Run("valid audience expression", func(t *testing.T) {
		err := ValidateProduct(CreateProductRequest{
			Name:     "Premium Card",
			Audience: `scores["financialStability"] > 50.0`,
		})
		assert.NoError(t, err)
	})

	t.Run("non-bool audience expression", func(t *testing.T) {
		err := ValidateProduct(CreateProductRequest{
			Name:     "Premium Card",
			Audience: `customer_id`,
		})
		assert.ErrorContains(t, err, "invalid audience expression")
	})

	t.Run("malformed audience expression", func(t *testing.T) {
		err := ValidateProduct(CreateProductRequest{
			Name:     "Premium Card",
			Audience: `scores[`,
		})
		assert.ErrorContains(t, err, "invalid audience expression")
	})
}

func TestValidateUpdateProduct(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("empty update is valid", func(t *testing.T) {
		assert.NoError(t, ValidateUpdateProduct(UpdateProductRequest{}))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateUpdateProduct(UpdateProductRequest{Name: strPtr("")})
		assert.ErrorContains(t, err, "name cannot be empty")
	})

	t.Run("clearing audience is valid", func(t *testing.T) {
		assert.NoError(t, ValidateUpdateProduct(UpdateProductRequest{Audience: strPtr("")}))
	})

	t.Run("invalid audience rejected", func(t *testing.T) {
		err := ValidateUpdateProduct(UpdateProductRequest{Audience: strPtr("!!!")})
		assert.ErrorContains(t, err, "invalid audience expression")
	})
}
