package query

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtureTransactions(n int) []models.Transaction {
	statuses := domain.TransactionStatuses
	out := make([]models.Transaction, n)
	for i := 0; i < n; i++ {
		out[i] = models.Transaction{
			ID:            fmt.Sprintf("txn-%d", i+1),
			Type:          domain.TxTypeDeposit,
			Status:        statuses[i%len(statuses)],
			Amount:        decimal.NewFromInt(int64(100 + i)),
			Currency:      "USD",
			Date:          base.Add(time.Duration(i%7) * time.Hour),
			Description:   fmt.Sprintf("Deposit #%d", i+1),
			PaymentMethod: domain.PaymentCreditCard,
			User:          models.UserRef{ID: fmt.Sprintf("user-%d", i%5+1), FullName: "Alice Smith", Email: "alice@example.com"},
			Details:       models.Card(models.CardDetails{Brand: "visa", Last4: "4242"}),
		}
	}
	return out
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func TestRun_PagesPartitionFilteredSet(t *testing.T) {
	records := fixtureTransactions(37)

	for _, filter := range []map[string]string{nil, {"status": "pending"}, {"userId": "user-2"}} {
		all, err := Run(records, Params{Page: 1, Limit: len(records), Filters: filter}, TransactionSchema)
		require.NoError(t, err)
		want := ids(all.Items, TransactionSchema.ID)

		for limit := 1; limit <= 12; limit++ {
			first, err := Run(records, Params{Page: 1, Limit: limit, Filters: filter}, TransactionSchema)
			require.NoError(t, err)
			n := first.Pagination.Total
			require.Equal(t, len(want), n)
			require.Equal(t, (n+limit-1)/limit, first.Pagination.TotalPages)

			var got []string
			for page := 1; page <= first.Pagination.TotalPages; page++ {
				res, err := Run(records, Params{Page: page, Limit: limit, Filters: filter}, TransactionSchema)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(res.Items), limit)
				got = append(got, ids(res.Items, TransactionSchema.ID)...)
			}
			assert.Equal(t, want, got, "limit=%d filter=%v", limit, filter)
		}
	}
}

func TestRun_IsPure(t *testing.T) {
	records := fixtureTransactions(20)
	before := append([]models.Transaction(nil), records...)
	p := Params{Page: 2, Limit: 3, Search: "deposit", SortKey: "amount", SortDirection: Asc}

	a, err := Run(records, p, TransactionSchema)
	require.NoError(t, err)
	b, err := Run(records, p, TransactionSchema)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, before, records)
}

func TestRun_SearchIsCaseInsensitive(t *testing.T) {
	users := []models.User{
		{ID: "user-1", FullName: "Alice Smith", Email: "a@x.io", CreatedAt: base},
		{ID: "user-2", FullName: "Bob Jones", Email: "b@x.io", CreatedAt: base},
	}
	res, err := Run(users, Params{Page: 1, Limit: 10, Search: "alice"}, UserSchema)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "user-1", res.Items[0].ID)

	res, err = Run(users, Params{Page: 1, Limit: 10, Search: "  JONES "}, UserSchema)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "user-2", res.Items[0].ID)
}

func TestRun_SearchFieldsRestrictSearch(t *testing.T) {
	users := []models.User{{ID: "user-1", FullName: "Alice Smith", Email: "zed@x.io", CreatedAt: base}}
	res, err := Run(users, Params{Page: 1, Limit: 10, Search: "alice", SearchFields: []string{"email"}}, UserSchema)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestRun_DateRangeIsInclusive(t *testing.T) {
	start := base
	end := base.Add(48 * time.Hour)
	kyc := []models.KycRequest{
		{ID: "kyc-1", SubmittedAt: start},
		{ID: "kyc-2", SubmittedAt: end},
		{ID: "kyc-3", SubmittedAt: start.Add(-time.Nanosecond)},
		{ID: "kyc-4", SubmittedAt: end.Add(time.Nanosecond)},
		{ID: "kyc-5", SubmittedAt: start.Add(time.Hour)},
	}
	res, err := Run(kyc, Params{Page: 1, Limit: 10, DateRange: &DateRange{Start: &start, End: &end}}, KycSchema)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kyc-1", "kyc-2", "kyc-5"}, ids(res.Items, KycSchema.ID))

	res, err = Run(kyc, Params{Page: 1, Limit: 10, DateRange: &DateRange{Start: &end}}, KycSchema)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kyc-2", "kyc-4"}, ids(res.Items, KycSchema.ID))
}

func TestRun_DefaultSortNewestFirst(t *testing.T) {
	tickets := []models.SupportTicket{
		{ID: "ticket-1", CreatedAt: base},
		{ID: "ticket-2", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "ticket-3", CreatedAt: base.Add(time.Hour)},
	}
	res, err := Run(tickets, Params{Page: 1, Limit: 10}, TicketSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"ticket-2", "ticket-3", "ticket-1"}, ids(res.Items, TicketSchema.ID))
}

func TestRun_PrioritySort(t *testing.T) {
	tickets := []models.SupportTicket{
		{ID: "ticket-1", Priority: domain.PriorityMedium},
		{ID: "ticket-2", Priority: domain.PriorityUrgent},
		{ID: "ticket-3", Priority: domain.PriorityLow},
	}
	res, err := Run(tickets, Params{Page: 1, Limit: 10, SortKey: "priority"}, TicketSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"ticket-2", "ticket-1", "ticket-3"}, ids(res.Items, TicketSchema.ID))
}

func TestRun_PageBeyondTotalIsEmpty(t *testing.T) {
	res, err := Run(fixtureTransactions(5), Params{Page: 9, Limit: 2}, TransactionSchema)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, models.Pagination{Page: 9, Limit: 2, Total: 5, TotalPages: 3}, res.Pagination)
}

func TestRun_RejectsInvalidParams(t *testing.T) {
	records := fixtureTransactions(3)
	cases := []Params{
		{Page: 1, Limit: 0},
		{Page: 1, Limit: -3},
		{Page: 0, Limit: 10},
		{Page: 1, Limit: 10, Filters: map[string]string{"colour": "red"}},
		{Page: 1, Limit: 10, SortKey: "colour"},
		{Page: 1, Limit: 10, SortDirection: "sideways"},
		{Page: 1, Limit: 10, Search: "x", SearchFields: []string{"colour"}},
	}
	for _, p := range cases {
		_, err := Run(records, p, TransactionSchema)
		assert.ErrorIs(t, err, models.ErrValidation, "%+v", p)
	}
}

func TestParseValues(t *testing.T) {
	values, err := url.ParseQuery("page=2&limit=25&status=pending&type=all&search=alice&sort=amount&order=ASC&from=2024-03-01&to=2024-03-02")
	require.NoError(t, err)

	p, err := ParseValues(values, TransactionSchema)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, map[string]string{"status": "pending"}, p.Filters)
	assert.Equal(t, "alice", p.Search)
	assert.Equal(t, "amount", p.SortKey)
	assert.Equal(t, Asc, p.SortDirection)
	require.NotNil(t, p.DateRange)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *p.DateRange.Start)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), *p.DateRange.End)
}

func TestParseValues_Defaults(t *testing.T) {
	p, err := ParseValues(url.Values{}, UserSchema)
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Nil(t, p.DateRange)
}

func TestParseValues_Rejects(t *testing.T) {
	for _, raw := range []string{"page=0", "limit=abc", "limit=100000", "colour=red", "from=yesterday"} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = ParseValues(values, UserSchema)
		assert.ErrorIs(t, err, models.ErrValidation, raw)
	}
}

func TestParamsValuesRoundTrip(t *testing.T) {
	from := base
	p := Params{
		Page:          3,
		Limit:         7,
		Filters:       map[string]string{"status": "open"},
		Search:        "refund",
		SortKey:       "priority",
		SortDirection: Desc,
		DateRange:     &DateRange{Start: &from},
	}
	back, err := ParseValues(p.Values(), TicketSchema)
	require.NoError(t, err)
	assert.Equal(t, p.Page, back.Page)
	assert.Equal(t, p.Limit, back.Limit)
	assert.Equal(t, p.Filters, back.Filters)
	assert.Equal(t, p.SortKey, back.SortKey)
	assert.True(t, back.DateRange.Start.Equal(from))
}
