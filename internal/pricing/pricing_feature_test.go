package pricing_test

import (
	"context"
	"fmt"
	"testing"

	"foboh/internal/model"
	"foboh/internal/pricing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type pricingTestContext struct {
	products map[string]model.Product
	profiles []model.PricingProfile
	names    map[string]uuid.UUID
	price    decimal.Decimal
}

func (c *pricingTestContext) reset() {
	c.products = make(map[string]model.Product)
	c.profiles = nil
	c.names = make(map[string]uuid.UUID)
	c.price = decimal.Zero
}

func (c *pricingTestContext) aProductWithGlobalWholesalePrice(id, price string) error {
	v, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.products[id] = model.Product{ID: id, Title: "Product " + id, GlobalWholesalePrice: v}
	return nil
}

func (c *pricingTestContext) aSavedProfilePricingProductAt(name, productID, price string) error {
	v, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	id := uuid.New()
	c.names[name] = id
	c.profiles = append(c.profiles, model.PricingProfile{
		ID:   id,
		Name: name,
		Items: []model.PriceItem{{
			ProfileID:      id,
			ProductID:      productID,
			AdjustmentType: model.AdjustmentFixed,
			IncrementType:  model.IncrementIncrease,
			Adjustment:     v,
		}},
	})
	return nil
}

func (c *pricingTestContext) iApplyAnAdjustmentTo(adjType, direction, value, base string) error {
	mag, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	b, err := decimal.NewFromString(base)
	if err != nil {
		return err
	}
	c.price = pricing.ComputePrice(b, model.AdjustmentSpec{
		AdjustmentType:  model.AdjustmentType(adjType),
		IncrementType:   model.IncrementType(direction),
		AdjustmentValue: mag,
	})
	return nil
}

func (c *pricingTestContext) resolve(productID string, basis pricing.Basis) error {
	p, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("unknown product %q", productID)
	}
	c.price = pricing.ResolveBasePrice(p, basis, c.profiles)
	return nil
}

func (c *pricingTestContext) iResolveProductAgainstTheGlobalBasis(productID string) error {
	return c.resolve(productID, pricing.Global())
}

func (c *pricingTestContext) iResolveProductAgainstAnUnknownProfile(productID string) error {
	return c.resolve(productID, pricing.ProfileRef(uuid.New()))
}

func (c *pricingTestContext) iResolveProductAgainstProfile(productID, name string) error {
	id, ok := c.names[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	return c.resolve(productID, pricing.ProfileRef(id))
}

func (c *pricingTestContext) iSaveProfileBasedOnWithAnAdjustmentForProduct(name, parent, adjType, direction, value, productID string) error {
	parentID, ok := c.names[parent]
	if !ok {
		return fmt.Errorf("unknown profile %q", parent)
	}
	mag, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	r := pricing.NewResolver(pricing.ProfileRef(parentID), c.profiles)
	items := pricing.BuildItems(r, []pricing.Line{{
		Product: c.products[productID],
		Spec: model.AdjustmentSpec{
			AdjustmentType:  model.AdjustmentType(adjType),
			IncrementType:   model.IncrementType(direction),
			AdjustmentValue: mag,
		},
	}})
	id := uuid.New()
	c.names[name] = id
	c.profiles = append(c.profiles, model.PricingProfile{ID: id, Name: name, BasedOnProfileID: &parentID, Items: items})
	return nil
}

func (c *pricingTestContext) iDeleteProfile(name string) error {
	id, ok := c.names[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	kept := c.profiles[:0]
	for _, p := range c.profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.profiles = kept
	return nil
}

func (c *pricingTestContext) thePriceIs(want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !w.Equal(c.price) {
		return fmt.Errorf("expected %s, got %s", w, c.price)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" with global wholesale price (-?\d+(?:\.\d+)?)$`, tc.aProductWithGlobalWholesalePrice)
	ctx.Step(`^a saved profile "([^"]*)" pricing product "([^"]*)" at (-?\d+(?:\.\d+)?)$`, tc.aSavedProfilePricingProductAt)

	// When steps
	ctx.Step(`^I apply a "([^"]*)" "([^"]*)" adjustment of (-?\d+(?:\.\d+)?) to (-?\d+(?:\.\d+)?)$`, tc.iApplyAnAdjustmentTo)
	ctx.Step(`^I resolve product "([^"]*)" against the global basis$`, tc.iResolveProductAgainstTheGlobalBasis)
	ctx.Step(`^I resolve product "([^"]*)" against an unknown profile$`, tc.iResolveProductAgainstAnUnknownProfile)
	ctx.Step(`^I resolve product "([^"]*)" against profile "([^"]*)"$`, tc.iResolveProductAgainstProfile)
	ctx.Step(`^I save profile "([^"]*)" based on "([^"]*)" with a "([^"]*)" "([^"]*)" adjustment of (-?\d+(?:\.\d+)?) for product "([^"]*)"$`, tc.iSaveProfileBasedOnWithAnAdjustmentForProduct)
	ctx.Step(`^I delete profile "([^"]*)"$`, tc.iDeleteProfile)

	// Then steps
	ctx.Step(`^the adjusted price is (-?\d+(?:\.\d+)?)$`, tc.thePriceIs)
	ctx.Step(`^the base price is (-?\d+(?:\.\d+)?)$`, tc.thePriceIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/pricing.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
