package dto_test

import (
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"tourdesk/shared/constant"
	"tourdesk/shared/dto"
	"tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	expectedCreatedAt := timezone.Format(createdAt, constant.DateFormat)
	expectedModifiedAt := timezone.Format(modifiedAt, constant.DateFormat)

	if metadata.CreatedAt != expectedCreatedAt {
		t.Errorf("expected CreatedAt to be %s, got %s", expectedCreatedAt, metadata.CreatedAt)
	}

	if metadata.ModifiedAt != expectedModifiedAt {
		t.Errorf("expected ModifiedAt to be %s, got %s", expectedModifiedAt, metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.ModifiedBy != "modifier" {
		t.Errorf("expected ModifiedBy to be 'modifier', got %s", metadata.ModifiedBy)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name: "with all valid parameters",
			queryParams: map[string]string{
				"page":     "2",
				"limit":    "20",
				"sort_by":  "booking_number",
				"sort_dir": "ASC",
			},
			defaultRequest: false,
			expected: dto.QueryParams{
				Page:    2,
				Limit:   20,
				SortBy:  "booking_number",
				SortDir: "ASC",
			},
		},
		{
			name:           "with default request enabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name:           "with default request disabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name: "with invalid page parameter",
			queryParams: map[string]string{
				"page": "invalid",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name: "with negative page parameter",
			queryParams: map[string]string{
				"page": "-1",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
		{
			name: "with lowercase sort direction",
			queryParams: map[string]string{
				"sort_dir": "desc",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortDir: "DESC",
			},
		},
		{
			name: "with invalid sort direction",
			queryParams: map[string]string{
				"sort_dir": "sideways",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:  constant.DefaultValuePage,
				Limit: constant.DefaultValueLimit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for key, value := range tt.queryParams {
				values.Set(key, value)
			}

			req := &http.Request{URL: &url.URL{RawQuery: values.Encode()}}

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			if !reflect.DeepEqual(params, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name         string
		filter       dto.Filter
		expectedSQL  string
		expectedArgs map[string]any
	}{
		{
			name: "eq with table",
			filter: dto.Filter{
				Field:    "status",
				Value:    "confirmed",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.status = :status",
			expectedArgs: map[string]any{"status": "confirmed"},
		},
		{
			name: "eq with custom arg name",
			filter: dto.Filter{
				ArgName:  "filter_account_id",
				Field:    "account_id",
				Value:    "account-id",
				Operator: dto.FilterOperatorEq,
				Table:    "payments",
			},
			expectedSQL:  "payments.account_id = :filter_account_id",
			expectedArgs: map[string]any{"filter_account_id": "account-id"},
		},
		{
			name: "greater eq",
			filter: dto.Filter{
				ArgName:  "date_from",
				Field:    "created_at",
				Value:    "2026-01-01",
				Operator: dto.FilterOperatorGreaterEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.created_at >= :date_from",
			expectedArgs: map[string]any{"date_from": "2026-01-01"},
		},
		{
			name: "less eq",
			filter: dto.Filter{
				ArgName:  "date_to",
				Field:    "created_at",
				Value:    "2026-01-31",
				Operator: dto.FilterOperatorLessEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.created_at <= :date_to",
			expectedArgs: map[string]any{"date_to": "2026-01-31"},
		},
		{
			name: "not eq without table",
			filter: dto.Filter{
				Field:    "status",
				Value:    "cancelled",
				Operator: dto.FilterOperatorNotEq,
			},
			expectedSQL:  "status != :status",
			expectedArgs: map[string]any{"status": "cancelled"},
		},
		{
			name: "in with slice",
			filter: dto.Filter{
				Field:    "status",
				Value:    []string{"pending", "confirmed"},
				Operator: dto.FilterOperatorIn,
				Table:    "bookings",
			},
			expectedSQL: "bookings.status IN (:status_0, :status_1) ",
			expectedArgs: map[string]any{
				"status_0": "pending",
				"status_1": "confirmed",
			},
		},
		{
			name: "unknown operator returns empty",
			filter: dto.Filter{
				Field:    "status",
				Value:    "confirmed",
				Operator: "between",
			},
			expectedSQL:  "",
			expectedArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.expectedSQL {
				t.Errorf("expected where %q, got %q", tt.expectedSQL, where)
			}

			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args %v, got %v", tt.expectedArgs, args)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				ArgName:  "filter_account_id",
				Field:    "account_id",
				Value:    "account-id",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{
						Field:    "status",
						Value:    "pending",
						Operator: dto.FilterOperatorEq,
						Table:    "bookings",
					},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	if !strings.HasPrefix(where, "(") || !strings.HasSuffix(where, ")") {
		t.Errorf("expected parenthesised clause, got %s", where)
	}

	if !strings.Contains(where, "bookings.account_id = :filter_account_id AND (bookings.status = :status)") {
		t.Errorf("unexpected where clause: %s", where)
	}

	expectedArgs := map[string]any{
		"filter_account_id": "account-id",
		"status":            "pending",
	}

	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args %v, got %v", expectedArgs, args)
	}

	empty := dto.FilterGroup{}

	where, args = empty.GetWhereClause()
	if where != "" {
		t.Errorf("expected empty where clause, got %s", where)
	}

	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}
