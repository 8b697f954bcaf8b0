package services

import (
	"fmt"
	"sort"
	"strings"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByNeighbourhood: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.MinPrice = listings[0].Price
	report.MaxPrice = listings[0].Price
	report.MostExpensive = listings[0]

	var total int
	for _, l := range listings {
		total += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
			report.MostExpensive = l
		}
		if l.LastReview == nil {
			report.NeverReviewed++
		}
		if l.NeighbourhoodGroup != "" {
			report.ListingsByNeighbourhood[l.NeighbourhoodGroup]++
		}
	}
	report.AveragePrice = round2(float64(total) / float64(len(listings)))

	// Top 5 by number of reviews, stable so ties keep dataset order
	reviewed := append([]*models.Listing(nil), listings...)
	sort.SliceStable(reviewed, func(i, j int) bool {
		return reviewed[i].NumberOfReviews > reviewed[j].NumberOfReviews
	})
	if len(reviewed) > 5 {
		reviewed = reviewed[:5]
	}
	report.MostReviewed = reviewed

	s.logger.Debug("[insights] Report built over %d listings", report.TotalListings)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 NYC AIRBNB LISTINGS INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings     : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Never reviewed     : \033[1m%d\033[0m\n", r.NeverReviewed)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics (per night)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Printf("  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m$%d\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m$%d\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Printf("  Neighbourhood : %s, %s\n", r.MostExpensive.Neighbourhood, r.MostExpensive.NeighbourhoodGroup)
		fmt.Printf("  Price         : \033[1;31m$%d/night\033[0m\n", r.MostExpensive.Price)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top 5 Most Reviewed Listings\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.MostReviewed) == 0 {
		fmt.Printf("  No listings found\n")
	} else {
		for i, l := range r.MostReviewed {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%d reviews\033[0m\n",
				i+1, truncate(l.Name, 38), l.NumberOfReviews)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by Neighbourhood Group\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByNeighbourhood) == 0 {
		fmt.Printf("  No neighbourhood data\n")
	} else {
		type groupCount struct {
			group string
			count int
		}
		var groups []groupCount
		for g, cnt := range r.ListingsByNeighbourhood {
			groups = append(groups, groupCount{g, cnt})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].count != groups[j].count {
				return groups[i].count > groups[j].count
			}
			return groups[i].group < groups[j].group
		})
		for _, gc := range groups {
			// scale bars so the largest group fills 20 cells
			width := gc.count * 20 / groups[0].count
			if width == 0 {
				width = 1
			}
			fmt.Printf("  %-16s %s (%d)\n", truncate(gc.group, 14), strings.Repeat("█", width), gc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
