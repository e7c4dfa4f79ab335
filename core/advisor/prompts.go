package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
)

// SystemPrompt sets the persona for every advisory request
const SystemPrompt = `You are a senior AWS cost optimization architect reviewing a real production cloud setup.
You provide practical, actionable advice based on real-world experience.
Always format your responses in clear, well-structured markdown.
Use emojis sparingly for emphasis (⚠️ for warnings, 💡 for tips, 🚀 for optimizations, 📊 for data).
Be specific with numbers and percentages when possible.`

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Internal("encode prompt context", err)
	}
	return string(data), nil
}

func hiddenCostsPrompt(req Request, report *pricing.Report, hidden pricing.HiddenEstimate) (string, error) {
	services, err := indentJSON(req.Services)
	if err != nil {
		return "", err
	}
	estimates, err := indentJSON(struct {
		*pricing.Report
		pricing.HiddenEstimate
	}{report, hidden})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Analyze this AWS architecture for hidden costs that the user might not expect:\n\n")
	fmt.Fprintf(&b, "**Region:** %s\n", req.Region)
	fmt.Fprintf(&b, "**Production Mode:** %s\n", yesNo(req.ProductionMode))
	fmt.Fprintf(&b, "**Services:**\n%s\n\n", services)
	fmt.Fprintf(&b, "**Current Cost Estimates:**\n%s\n\n", estimates)
	b.WriteString(`Identify 3-5 hidden costs that are commonly overlooked. For each:
1. Describe what the cost is
2. Explain why it happens
3. Give a rough monthly estimate

Format your response as markdown with clear sections. Use warning emojis (⚠️) for significant costs.
Focus on practical, real-world costs like:
- NAT Gateway charges
- Data transfer between services
- EBS snapshot storage
- CloudWatch logs and metrics
- Load balancer fees
- Cross-AZ traffic

End with a total estimated hidden cost.`)
	return b.String(), nil
}

func optimizePrompt(req Request, report *pricing.Report) (string, error) {
	services, err := indentJSON(req.Services)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Optimize this AWS architecture for cost savings:\n\n")
	fmt.Fprintf(&b, "**Region:** %s\n", req.Region)
	fmt.Fprintf(&b, "**Production Mode:** %s\n", yesNo(req.ProductionMode))
	fmt.Fprintf(&b, "**Current Monthly Cost:** $%s\n", money(report.Total.Monthly))
	fmt.Fprintf(&b, "**Services:**\n%s\n\n", services)
	b.WriteString(`Provide exactly 3 optimization recommendations. For each:

### 🚀 [Optimization Title]

**Action:** What to do specifically
**Monthly Savings:** $X - $Y (percentage reduction)
**Risk Level:** Low/Medium/High
**Tradeoff:** What you give up

Be specific and practical. Consider:
- Reserved Instances vs On-Demand
- Spot Instances for non-critical workloads
- Right-sizing instances
- S3 storage class optimization
- RDS Reserved Instances
- Regional pricing differences

End with a summary table showing all recommendations.`)
	return b.String(), nil
}

func simulatePrompt(req Request, report *pricing.Report, question string) (string, error) {
	services, err := indentJSON(req.Services)
	if err != nil {
		return "", err
	}
	breakdown, err := indentJSON(report.Breakdown)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Simulate a scenario change for this AWS architecture:\n\n")
	fmt.Fprintf(&b, "**User's Question:** %q\n\n", question)
	b.WriteString("**Current Setup:**\n")
	fmt.Fprintf(&b, "- Region: %s\n", req.Region)
	fmt.Fprintf(&b, "- Production Mode: %s\n", yesNo(req.ProductionMode))
	fmt.Fprintf(&b, "- Monthly Cost: $%s\n\n", money(report.Total.Monthly))
	fmt.Fprintf(&b, "**Services:**\n%s\n\n", services)
	fmt.Fprintf(&b, "**Cost Breakdown:**\n%s\n\n", breakdown)
	b.WriteString(`Analyze the user's scenario and provide:

## 📊 What-If Analysis

### Scenario: [Restate the scenario]

### Current State
- Monthly Cost: $X
- Key metrics

### After Change
- New Monthly Cost: $Y
- Percentage Change: +/-X%

### Impact Analysis
Explain what changes and why the costs change.

### Recommendations
What should the user consider when making this change?

Be specific with numbers. If the user asks about traffic changes, calculate new data transfer costs. If they ask about region changes, show pricing differences.`)
	return b.String(), nil
}

func workloadPrompt(req Request, report *pricing.Report, description string) (string, error) {
	services, err := indentJSON(req.Services)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("The user has described their workload. Analyze it and suggest improvements:\n\n")
	fmt.Fprintf(&b, "**Workload Description:**\n%q\n\n", description)
	b.WriteString("**Current Architecture:**\n")
	fmt.Fprintf(&b, "- Region: %s\n", req.Region)
	fmt.Fprintf(&b, "- Production Mode: %s\n", yesNo(req.ProductionMode))
	fmt.Fprintf(&b, "- Monthly Cost: $%s\n\n", money(report.Total.Monthly))
	fmt.Fprintf(&b, "**Current Services:**\n%s\n\n", services)
	b.WriteString(`Provide a comprehensive analysis:

## 🔍 Workload Analysis

### Understanding Your Workload
Summarize what you understand about their application.

### Architecture Assessment
Is their current setup appropriate for this workload? Why or why not?

### Recommendations

#### 1. [First Recommendation]
- What to change
- Why it helps this specific workload
- Estimated impact

#### 2. [Second Recommendation]
Continue...

### Optimized Architecture
Suggest the ideal setup for their workload with estimated monthly cost.

### Cost Comparison
| Current | Optimized | Savings |
|---------|-----------|---------|
| $X | $Y | $Z (%) |

Be practical and specific to their described use case.`)
	return b.String(), nil
}

// percentIncrease renders the relative change with one decimal, or "n/a" for a zero base
func percentIncrease(base, production float64) string {
	if base == 0 {
		return "n/a"
	}
	pct := decimal.NewFromFloat(production - base).
		Div(decimal.NewFromFloat(base)).
		Mul(decimal.NewFromInt(100))
	return "+" + pct.StringFixed(1) + "%"
}

func productionPrompt(req Request, base, production float64) (string, error) {
	services, err := indentJSON(req.Services)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Explain why switching to Production Mode increases costs:\n\n")
	fmt.Fprintf(&b, "**Base Monthly Cost:** $%s\n", money(base))
	fmt.Fprintf(&b, "**Production Monthly Cost:** $%s\n", money(production))
	fmt.Fprintf(&b, "**Increase:** $%s (%s)\n\n", money(production-base), percentIncrease(base, production))
	fmt.Fprintf(&b, "**Services:**\n%s\n\n", services)
	b.WriteString(`Explain in clear terms what Production Mode adds:

## 🏭 Production Mode Explained

### Why Production Costs More

Production environments require additional components that development/testing doesn't:

#### 1. Redundancy & High Availability
Explain Multi-AZ, replicas, etc.

#### 2. Backup & Recovery
Automated backups, snapshots, etc.

#### 3. Monitoring & Observability
CloudWatch, logging, alerting

#### 4. Security
WAF, security groups, etc.

### Cost Breakdown

| Component | Added Cost |
|-----------|------------|
| Redundancy | $X |
| Backups | $Y |
| Monitoring | $Z |
| **Total** | **$W** |

### Is It Worth It?
Brief explanation of why these costs are necessary for production.`)
	return b.String(), nil
}
