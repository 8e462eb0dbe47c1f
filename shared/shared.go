package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	"tourdesk/shared/dto"
	"tourdesk/shared/timezone"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByAccountID scopes a lookup to one tenant. Every repository call made
// on behalf of a caller goes through this (or a filter that embeds it); a row
// owned by another account is indistinguishable from a missing row.
func FilterByAccountID(id, accountID, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			dto.Filter{
				ArgName:  "filter_account_id",
				Field:    constant.FieldAccountID,
				Value:    accountID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterAccountOnly scopes a list query to one tenant.
func FilterAccountOnly(accountID, table string) dto.Filter {
	return dto.Filter{
		ArgName:  "filter_account_id",
		Field:    constant.FieldAccountID,
		Value:    accountID,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	}
}

// BuildCacheKey joins a key prefix with identifying parts. The account id must
// be one of the parts whenever the cached value is tenant data.
func BuildCacheKey(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a deterministic cache key from pagination and
// filter state. Filter args are marshalled through a map, which encodes with
// sorted keys.
func BuildCacheKeyWithQuery(prefix, accountID string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encoded, err := json.Marshal(map[string]any{
		"params": params,
		"where":  where,
		"args":   args,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode cache key, falling back to prefix")

		return BuildCacheKey(prefix, accountID)
	}

	return BuildCacheKey(prefix, accountID, fmt.Sprintf("%x", encoded))
}

// InvalidateCaches clears every cache entry under the given prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
