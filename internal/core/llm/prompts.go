package llm

// Prompts sent to the model. French, because the workspace database and the
// household using it are French.

const chooseRecipesPrompt = `Tu es un assistant de planification de repas.
Parmi les recettes candidates ci-dessous, choisis **%d plats variés** pour la semaine.

Critères, par ordre de priorité :
1. Variété des protéines (poulet, poisson, légumineuses, oeufs...)
2. Utiliser en priorité les aliments déjà en stock
3. Équilibre nutritionnel sur la semaine
4. Temps de préparation raisonnable

Réponds avec un objet JSON de la forme :
{"recipes": [{"Nom": "", "Lien": "", "Temps": 0}, ...]}`

const consolidatePrompt = `Tu es un assistant de courses.
À partir des recettes sélectionnées :
1. Rassembler tous les ingrédients
2. Fusionner les doublons (même aliment sous des noms proches)
3. Retirer les aliments déjà en stock : %s
4. Additionner les quantités quand les unités sont compatibles
5. Retourner un objet JSON avec une clé "groceries" contenant un tableau au format :
{"groceries": [{"Aliment": "", "Quantité": "", "Unité": "", "Recettes": "nom1, nom2, ..."}, ...]}`

const deduplicateCoursesPrompt = `Tu es un assistant de courses.
Nettoie la liste ci-dessous :
1. Fusionner les doublons (même aliment écrit différemment)
2. Normaliser les noms (minuscules, sans marque)
3. Conserver les quantités et unités telles quelles
4. Ne rien inventer

Réponds avec un objet JSON de la forme :
{"courses": [{"Aliment": "", "Quantité": "", "Unité": "", "Recettes": "", "Notes": ""}, ...]}`

const completeQuantitiesPrompt = `Tu es un assistant de courses.
Certains items de la liste n'ont pas de quantité.
En t'appuyant sur les recettes fournies en contexte, estime une quantité et
une unité raisonnables pour chaque item qui en manque. Ne modifie pas les
items qui ont déjà une quantité.

Réponds avec un objet JSON de la forme :
{"courses": [{"Aliment": "", "Quantité": "", "Unité": "", "Recettes": "", "Notes": ""}, ...]}`
