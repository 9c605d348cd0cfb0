package inventory

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
)

type RecipeRequest struct {
	ProductName string       `json:"product_name"`
	Ingredients []Ingredient `json:"ingredients"`
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateRecipe")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := decodePayload[RecipeRequest](w, r, log)
	if !ok {
		return
	}

	recipe := &Recipe{
		ProductName: req.ProductName,
		Ingredients: req.Ingredients,
	}
	if err := recipe.Validate(); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.recipeRepo.FindByProductName(ctx, recipe.ProductName)
	if err != nil {
		log.Error("cannot check recipe product name", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create recipe")
		return
	}
	if existing != nil {
		aqm.RespondError(w, http.StatusConflict, "Recipe already exists for this product")
		return
	}

	recipe.BeforeCreate()
	if err := h.recipeRepo.Create(ctx, recipe); err != nil {
		log.Error("cannot create recipe", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create recipe")
		return
	}

	links := aqm.RESTfulLinksFor(recipe)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, recipe, links...)
}

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRecipes")
	defer finish()

	log := h.log(r)

	recipes, err := h.recipeRepo.List(r.Context())
	if err != nil {
		log.Error("cannot list recipes", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list recipes")
		return
	}

	aqm.RespondCollection(w, recipes, "recipe")
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRecipe")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	recipe, err := h.recipeRepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load recipe")
		return
	}
	if recipe == nil {
		aqm.RespondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	aqm.RespondSuccess(w, recipe, aqm.RESTfulLinksFor(recipe)...)
}

func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateRecipe")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := decodePayload[RecipeRequest](w, r, log)
	if !ok {
		return
	}

	recipe, err := h.recipeRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update recipe")
		return
	}
	if recipe == nil {
		aqm.RespondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if NameKey(req.ProductName) != recipe.ProductKey {
		clash, err := h.recipeRepo.FindByProductName(ctx, req.ProductName)
		if err != nil {
			log.Error("cannot check recipe product name", "error", err)
			aqm.RespondError(w, http.StatusInternalServerError, "Could not update recipe")
			return
		}
		if clash != nil {
			aqm.RespondError(w, http.StatusConflict, "Recipe already exists for this product")
			return
		}
	}

	recipe.ProductName = req.ProductName
	recipe.Ingredients = req.Ingredients
	if err := recipe.Validate(); err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipe.BeforeUpdate()
	if err := h.recipeRepo.Save(ctx, recipe); err != nil {
		log.Error("cannot save recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update recipe")
		return
	}

	aqm.RespondSuccess(w, recipe, aqm.RESTfulLinksFor(recipe)...)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteRecipe")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	recipe, err := h.recipeRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete recipe")
		return
	}
	if recipe == nil {
		aqm.RespondError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if err := h.recipeRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
