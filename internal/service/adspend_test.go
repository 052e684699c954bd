package service

import (
	"testing"

	"github.com/memberpulse/memberpulse/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AdSpendServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AdSpendService
}

func TestAdSpendService(t *testing.T) {
	suite.Run(t, new(AdSpendServiceSuite))
}

func (s *AdSpendServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAdSpendService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *AdSpendServiceSuite) TestGetAdSpend() {
	s.GetAdSpendClient().Spend = decimal.NewFromInt(500)

	resp, err := s.service.GetAdSpend(s.GetContext())
	s.NoError(err)
	s.True(decimal.NewFromInt(500).Equal(resp.MonthlySpend))
	s.True(decimal.NewFromInt(500).Equal(resp.WeeklySpend))
	s.True(decimal.NewFromInt(500).Equal(resp.DailySpend))
	s.Equal("dkk", resp.Currency)
}

func (s *AdSpendServiceSuite) TestMonthlyFallsBackWhenUnavailable() {
	s.GetAdSpendClient().Err = errUpstreamDown

	resp, err := s.service.GetAdSpend(s.GetContext())
	s.NoError(err)
	s.True(decimal.NewFromInt(15000).Equal(resp.MonthlySpend), "got %s", resp.MonthlySpend)
	s.True(resp.WeeklySpend.IsZero())
	s.True(resp.DailySpend.IsZero())
}

func (s *AdSpendServiceSuite) TestFallbackIsNotCached() {
	client := s.GetAdSpendClient()
	client.Err = errUpstreamDown

	spend := s.service.MonthlySpendOrFallback(s.GetContext())
	s.True(decimal.NewFromInt(15000).Equal(spend))

	// Once the collaborator recovers the real figure must show through
	client.Err = nil
	client.Spend = decimal.NewFromInt(321)

	spend = s.service.MonthlySpendOrFallback(s.GetContext())
	s.True(decimal.NewFromInt(321).Equal(spend), "got %s", spend)
}

func (s *AdSpendServiceSuite) TestMonthlySpendIsCached() {
	client := s.GetAdSpendClient()
	client.Spend = decimal.NewFromInt(100)

	first := s.service.MonthlySpendOrFallback(s.GetContext())
	s.True(decimal.NewFromInt(100).Equal(first))

	client.Spend = decimal.NewFromInt(999)

	second := s.service.MonthlySpendOrFallback(s.GetContext())
	s.True(decimal.NewFromInt(100).Equal(second), "got %s", second)
	s.Len(client.Calls, 1)
}
