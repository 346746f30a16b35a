package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/llm"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

var demoRecipes = []types.RecipeInput{
	{
		Title:       "Classic Margherita Pizza",
		Description: "A Neapolitan style pizza with a blistered crust, bright tomato sauce and fresh mozzarella.",
		Ingredients: []string{"500g pizza dough", "200g San Marzano tomatoes", "150g fresh mozzarella", "Fresh basil", "Olive oil", "Salt"},
		Steps:       []string{"Heat the oven as hot as it goes", "Stretch the dough", "Spread crushed tomatoes", "Top with mozzarella", "Bake until blistered", "Finish with basil and olive oil"},
		Tags:        []string{"Italian", "Vegetarian", "Dinner"},
	},
	{
		Title:       "Chickpea Coconut Curry",
		Description: "A weeknight curry of chickpeas simmered in spiced coconut milk.",
		Ingredients: []string{"2 cans chickpeas", "400ml coconut milk", "1 onion", "3 garlic cloves", "2 tbsp curry powder", "Spinach"},
		Steps:       []string{"Soften the onion and garlic", "Toast the curry powder", "Add chickpeas and coconut milk", "Simmer 15 minutes", "Wilt in the spinach"},
		Tags:        []string{"Vegan", "Indian", "Dinner"},
	},
	{
		Title:       "Overnight Oats",
		Description: "Creamy oats soaked overnight with yogurt and berries.",
		Ingredients: []string{"50g rolled oats", "100ml milk", "50g yogurt", "1 tsp honey", "Berries"},
		Steps:       []string{"Stir oats, milk, yogurt and honey together", "Refrigerate overnight", "Top with berries"},
		Tags:        []string{"Breakfast", "Quick"},
	},
	{
		Title:       "Lemon Garlic Roast Chicken",
		Description: "Whole roast chicken with lemon, garlic and thyme.",
		Ingredients: []string{"1 whole chicken", "1 lemon", "1 head garlic", "Thyme", "Butter", "Salt and pepper"},
		Steps:       []string{"Dry and season the chicken", "Stuff with lemon and garlic", "Rub with butter", "Roast at 200C for 80 minutes", "Rest before carving"},
		Tags:        []string{"Dinner", "Gluten-Free"},
	},
	{
		Title:       "Miso Glazed Salmon",
		Description: "Salmon fillets glazed with sweet miso and broiled until caramelized.",
		Ingredients: []string{"4 salmon fillets", "3 tbsp white miso", "1 tbsp mirin", "1 tbsp soy sauce", "1 tsp sugar"},
		Steps:       []string{"Whisk miso, mirin, soy and sugar", "Coat the salmon", "Marinate 30 minutes", "Broil 8 minutes"},
		Tags:        []string{"Japanese", "Seafood"},
	},
}

var recipePrompts = []string{
	"a traditional Italian pasta with a unique twist",
	"a healthy vegan salad with seasonal ingredients",
	"a spicy Indian curry with a modern twist",
	"a Thai soup with bold flavors",
	"a traditional Mexican dish with authentic spices",
	"a Middle Eastern mezze platter",
	"a Korean BBQ dish with a homemade marinade",
	"a quick and easy weeknight dinner",
}

func main() {
	generate := flag.Int("generate", 0, "Number of additional recipes to generate with the configured provider")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	conn := database.FromDB(db)
	defer conn.Close()

	// Create a demo user
	users := service.NewUserService(conn, cfg.DBTimeout)
	owner, err := users.Sync(ctx, &types.TokenClaims{
		UserID: uuid.New(),
		Name:   "Demo Cook",
		Email:  "demo-" + time.Now().Format("20060102150405") + "@example.com",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create demo user")
	}

	recipes := service.NewRecipeService(conn, cfg.DBTimeout)
	created := 0
	for _, in := range demoRecipes {
		recipe, err := recipes.CreateRecipe(ctx, owner.ID, in)
		if err != nil {
			log.Error().Err(err).Str("title", in.Title).Msg("failed to create recipe")
			continue
		}
		created++
		log.Info().Str("recipe_id", recipe.ID.String()).Str("title", recipe.Title).Msg("created recipe")
	}

	if *generate > 0 {
		created += generateRecipes(ctx, cfg, recipes, owner.ID, *generate)
	}

	log.Info().Int("count", created).Msg("seeding finished")
}

// generateRecipes drafts recipes with the configured provider and stores them
func generateRecipes(ctx context.Context, cfg *config.Config, recipes *service.RecipeService, owner uuid.UUID, n int) int {
	provider, err := llm.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create text generation provider")
		return 0
	}
	defer provider.Close()

	generation := service.NewGenerationService(provider, nil, service.WithTimeouts(cfg.GenerationTimeout, 0))

	created := 0
	for i := 0; i < n; i++ {
		prompt := recipePrompts[i%len(recipePrompts)]
		draft, err := generation.Generate(ctx, prompt)
		if err != nil {
			log.Error().Err(err).Str("prompt", prompt).Msg("failed to generate recipe")
			continue
		}

		recipe, err := recipes.CreateRecipe(ctx, owner, types.RecipeInput{
			Title:       draft.Title,
			Description: draft.Description,
			Ingredients: draft.Ingredients,
			Steps:       draft.Steps,
			Image:       draft.Image,
			Source:      draft.Source,
		})
		if err != nil {
			log.Error().Err(err).Str("prompt", prompt).Msg("failed to store generated recipe")
			continue
		}
		created++
		log.Info().Str("recipe_id", recipe.ID.String()).Str("title", recipe.Title).Msg("created generated recipe")

		// Space out provider calls to stay under rate limits
		time.Sleep(2 * time.Second)
	}
	return created
}
