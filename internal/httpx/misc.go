package httpx

import "net/http"

func home(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Bienvenue sur l'API Champomix !")
}

func hello(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Hello, World!")
}

func data(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{"data": {1, 2, 3, 4}})
}
